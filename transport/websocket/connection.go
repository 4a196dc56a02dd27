package websocket

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
	"github.com/rocketscienceinc/tictactoe-regret/internal/usecase"
)

const writeTimeout = 10 * time.Second

// connection is one browser tab. Several connections can share a session.
type connection struct {
	socket    *websocket.Conn
	sessionID string
	match     *usecase.MatchController

	unsubscribe func()

	writeMu sync.Mutex
}

func (that *connection) send(action string, payload any) error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err := that.socket.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.socket.WriteJSON(Response{Action: action, Payload: payload}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) sendState(state entity.MatchState) error {
	return that.send(actionState, newStatePayload(state))
}

func (that *connection) sendError(action string, err error) error {
	return that.send(action, ErrorPayload{Error: err.Error()})
}
