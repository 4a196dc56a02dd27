package suggestion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
)

const maxResponseSize = 1 << 16

// Client calls an external move-suggestion service over HTTP.
type Client struct {
	url        string
	difficulty entity.Difficulty
	httpClient *http.Client
}

// New returns a client posting to url. A zero timeout leaves the call unbounded.
func New(url string, timeout time.Duration, difficulty entity.Difficulty) *Client {
	return &Client{
		url:        url,
		difficulty: difficulty,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (that *Client) Suggest(ctx context.Context, req entity.SuggestionRequest) (int, error) {
	body, err := json.Marshal(Request{
		Board:      EncodeBoard(req.Board),
		Symbol:     string(req.Symbol),
		Difficulty: that.difficulty,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal suggestion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, that.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build suggestion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := that.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("suggestion request failed: %w", err)
	}
	defer resp.Body.Close()

	var payload Response
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: status %d: %w", ErrUnexpectedReply, resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d: %s", ErrUnexpectedReply, resp.StatusCode, payload.Error)
	}

	if payload.Move == nil {
		return 0, ErrMissingMove
	}

	return *payload.Move, nil
}
