package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
	"github.com/rocketscienceinc/tictactoe-regret/internal/usecase"
)

const (
	sessionCookie   = "user_session"
	maxMessageSize  = 1 << 12
	shutdownTimeout = 5 * time.Second
)

type sessionManager interface {
	NewSessionID() string
	GetOrCreate(ctx context.Context, sessionID string) (*usecase.MatchController, error)
	Release(sessionID string)
}

var (
	errMalformedMessage = errors.New("malformed message")
	errUnknownAction    = errors.New("unknown action")
)

type handlerFunc func(ctx context.Context, conn *connection, msg *Message) error

type Server struct {
	logger   *slog.Logger
	sessions sessionManager
	upgrader websocket.Upgrader

	// cookieLifetime matches how long the session's snapshot is kept.
	cookieLifetime time.Duration

	// mu serializes attach and detach so a session is released only by its last connection.
	mu       sync.Mutex
	attached map[string]int

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, sessions sessionManager, cookieLifetime time.Duration) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		attached: make(map[string]int),
		handlers: make(map[string]handlerFunc),

		cookieLifetime: cookieLifetime,
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionMove] = server.handleMove
	server.handlers[actionUndo] = server.handleUndo
	server.handlers[actionJump] = server.handleJump
	server.handlers[actionRestart] = server.handleRestart
	server.handlers[actionMode] = server.handleMode

	return server
}

// Handler serves /ws. Open sockets are closed when ctx is canceled.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down WebSocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	sessionID, header := that.sessionCookie(req)

	socket, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		log.Warn("failed to upgrade connection", "error", err)
		return
	}
	defer socket.Close()

	socket.SetReadLimit(maxMessageSize)

	conn := &connection{socket: socket, sessionID: sessionID}
	if err = that.attach(ctx, conn); err != nil {
		log.Error("failed to attach connection", "session", sessionID, "error", err)
		_ = conn.sendError(actionConnect, err)
		return
	}
	defer that.detach(conn)

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			_ = socket.Close()
		case <-done:
		}
	}()

	log.Info("WebSocket connection established", "session", sessionID)

	that.handleMessages(ctx, conn)
}

// handleMessages - processes messages from the client until it goes away.
func (that *Server) handleMessages(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "handleMessages", "session", conn.sessionID)

	for {
		_, data, err := conn.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("connection lost", "error", err)
			} else {
				log.Info("connection closed")
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to decode message", "error", err)
			if err = conn.sendError("", errMalformedMessage); err != nil {
				return
			}
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			if err := conn.sendError(message.Action, fmt.Errorf("%w: %q", errUnknownAction, message.Action)); err != nil {
				return
			}
			continue
		}

		if err := handler(ctx, conn, &message); err != nil {
			log.Warn("error processing message", "action", message.Action, "error", err)
			if err = conn.sendError(message.Action, err); err != nil {
				return
			}
		}
	}
}

// attach binds conn to its session's controller and subscribes it to state pushes.
func (that *Server) attach(ctx context.Context, conn *connection) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	match, err := that.sessions.GetOrCreate(ctx, conn.sessionID)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	conn.match = match
	conn.unsubscribe = match.Subscribe(that.push(conn))
	that.attached[conn.sessionID]++

	return nil
}

func (that *Server) detach(conn *connection) {
	that.mu.Lock()
	defer that.mu.Unlock()

	conn.unsubscribe()

	that.attached[conn.sessionID]--
	if that.attached[conn.sessionID] > 0 {
		return
	}

	delete(that.attached, conn.sessionID)
	that.sessions.Release(conn.sessionID)
}

func (that *Server) push(conn *connection) usecase.Observer {
	log := that.logger.With("method", "push", "session", conn.sessionID)

	return func(state entity.MatchState) {
		if err := conn.sendState(state); err != nil {
			log.Warn("failed to push state", "error", err)
		}
	}
}

// sessionCookie returns the session of the request, creating one when the
// browser has none. The returned header carries the new cookie.
func (that *Server) sessionCookie(req *http.Request) (string, http.Header) {
	log := that.logger.With("method", "sessionCookie")

	if cookie, err := req.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		log.Debug("session cookie found", "cookie", cookie.Value)
		return cookie.Value, nil
	}

	cookie := &http.Cookie{
		Name:     sessionCookie,
		Value:    that.sessions.NewSessionID(),
		Expires:  time.Now().Add(that.cookieLifetime),
		Path:     "/ws",
		HttpOnly: true,
	}

	header := http.Header{}
	header.Add("Set-Cookie", cookie.String())

	log.Info("session cookie not found, new one created", "cookie", cookie.Value)

	return cookie.Value, header
}
