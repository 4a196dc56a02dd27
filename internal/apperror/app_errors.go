package apperror

import "errors"

var (
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrInvalidStep      = errors.New("invalid history step")
	ErrInvalidSlot      = errors.New("invalid player slot")
	ErrInvalidMode      = errors.New("invalid player mode")
	ErrUnknownIntent    = errors.New("unknown intent")
	ErrInvalidSnapshot  = errors.New("invalid match snapshot")
	ErrSessionNotFound  = errors.New("session not found")
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrInvalidSymbol    = errors.New("invalid symbol")
	ErrControllerClosed = errors.New("match controller is closed")
)
