package entity

const (
	EasyDifficulty   Difficulty = "easy"
	NormalDifficulty Difficulty = "normal"
	HardDifficulty   Difficulty = "hard"
)

// Difficulty selects the strategy of the built-in bot.
type Difficulty string

func (that Difficulty) IsValid() bool {
	switch that {
	case EasyDifficulty, NormalDifficulty, HardDifficulty:
		return true
	default:
		return false
	}
}

// SuggestionRequest asks a move-suggestion collaborator where Symbol should be placed.
type SuggestionRequest struct {
	Board  Board `json:"board"`
	Symbol Mark  `json:"symbol"`
}

// SuggestionResponse carries the suggested cell index.
type SuggestionResponse struct {
	Move int `json:"move"`
}
