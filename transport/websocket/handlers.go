package websocket

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/rocketscienceinc/tictactoe-regret/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
)

// handleConnect answers with the current state and wakes a waiting AI.
func (that *Server) handleConnect(_ context.Context, conn *connection, _ *Message) error {
	if err := conn.sendState(conn.match.State()); err != nil {
		return fmt.Errorf("failed to send state: %w", err)
	}

	conn.match.Kick()

	return nil
}

func (that *Server) handleMove(_ context.Context, conn *connection, msg *Message) error {
	var payload movePayload
	if err := decodePayload(msg, &payload); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidCell, err)
	}

	cell, ok := wholeNumber(payload.Cell)
	if !ok {
		return fmt.Errorf("%w: cell must be an integer", apperror.ErrInvalidCell)
	}

	if _, err := conn.match.Move(cell); err != nil {
		return err
	}

	return nil
}

func (that *Server) handleUndo(_ context.Context, conn *connection, _ *Message) error {
	_, err := conn.match.Undo()
	return err
}

func (that *Server) handleJump(_ context.Context, conn *connection, msg *Message) error {
	var payload jumpPayload
	if err := decodePayload(msg, &payload); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidStep, err)
	}

	step, ok := wholeNumber(payload.Step)
	if !ok {
		return fmt.Errorf("%w: step must be an integer", apperror.ErrInvalidStep)
	}

	_, err := conn.match.JumpTo(step)
	return err
}

func (that *Server) handleRestart(_ context.Context, conn *connection, _ *Message) error {
	_, err := conn.match.Reset()
	return err
}

func (that *Server) handleMode(_ context.Context, conn *connection, msg *Message) error {
	var payload modePayload
	if err := decodePayload(msg, &payload); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMode, err)
	}

	slot, ok := wholeNumber(payload.Slot)
	if !ok {
		return fmt.Errorf("%w: slot must be an integer", apperror.ErrInvalidSlot)
	}

	_, err := conn.match.SetPlayerMode(slot, entity.PlayerMode(payload.Mode))
	return err
}

func decodePayload(msg *Message, target any) error {
	if err := mapstructure.Decode(msg.Payload, target); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}

	return nil
}
