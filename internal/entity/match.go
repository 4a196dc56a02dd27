package entity

const (
	ModeHuman PlayerMode = "human"
	ModeAI    PlayerMode = "ai"
)

const (
	ResultX    Result = Result(PlayerX)
	ResultO    Result = Result(PlayerO)
	ResultDraw Result = "draw"
)

const (
	// UndoPly retracts the last single placement.
	UndoPly UndoGranularity = "ply"
	// UndoRound retracts the last pair of placements, one per side.
	UndoRound UndoGranularity = "round"
)

const (
	Player1 = 1
	Player2 = 2
)

// PlayerMode tells who produces the moves of a slot.
type PlayerMode string

func (that PlayerMode) IsValid() bool {
	return that == ModeHuman || that == ModeAI
}

// Result is the outcome of one completed match.
type Result string

type UndoGranularity string

func (that UndoGranularity) IsValid() bool {
	return that == UndoPly || that == UndoRound
}

type HistoryEntry struct {
	Board Board `json:"board"`
}

// MatchState is the whole state of a session's game. Transitions in package
// tictactoe never modify a MatchState in place, they return a new one.
type MatchState struct {
	History     []HistoryEntry  `json:"history"`
	Cursor      int             `json:"cursor"`
	Ended       bool            `json:"ended"`
	Results     []Result        `json:"results"`
	Player1Mode PlayerMode      `json:"player1_mode"`
	Player2Mode PlayerMode      `json:"player2_mode"`
	Undo        UndoGranularity `json:"undo"`
	Generation  uint64          `json:"generation"`
}

// Current returns the board at the cursor.
func (that MatchState) Current() Board {
	return that.History[that.Cursor].Board
}

// Tip is the index of the last history entry.
func (that MatchState) Tip() int {
	return len(that.History) - 1
}

// IsReviewing reports whether the cursor is behind the tip of history.
func (that MatchState) IsReviewing() bool {
	return that.Cursor != that.Tip()
}

// ModeOf returns the configured mode of a slot, or an empty mode for an unknown slot.
func (that MatchState) ModeOf(slot int) PlayerMode {
	switch slot {
	case Player1:
		return that.Player1Mode
	case Player2:
		return that.Player2Mode
	default:
		return ""
	}
}

// MoverSlot returns which slot places the next mark after the given step.
func MoverSlot(step int) int {
	if step%2 == 0 {
		return Player1
	}
	return Player2
}
