// Package apidto holds the JSON request/response shapes of the HTTP
// surface.
package apidto

type MoveRequest struct {
	FEN  string `json:"fen"`
	Move string `json:"move"`
}

type FENRequest struct {
	FEN string `json:"fen"`
}

// GameState is the snapshot body shared by every successful response.
type GameState struct {
	LegalMoves  []string `json:"legal_moves"`
	IsCheck     bool     `json:"is_check"`
	IsCheckmate bool     `json:"is_checkmate"`
	IsStalemate bool     `json:"is_stalemate"`
	IsGameOver  bool     `json:"is_game_over"`
}

type MoveResponse struct {
	FEN   string `json:"fen"`
	Valid bool   `json:"valid"`
	GameState
}

type PositionResponse struct {
	Valid bool `json:"valid"`
	GameState
}

type ResetResponse struct {
	FEN string `json:"fen"`
	GameState
}

// InvalidFENResponse is the handled-failure body of POST /fen.
type InvalidFENResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
