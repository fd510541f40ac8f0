package rules

import (
	nchess "github.com/corentings/chess/v2"
)

// The library keeps its check flag private, so the check query is
// derived here: the side to move is in check when its king square is
// attacked by any opposing piece.

func kingAttacked(pos *nchess.Position) bool {
	squares := pos.Board().SquareMap()
	us := pos.Turn()

	var kingSq nchess.Square
	found := false
	for sq, pc := range squares {
		if pc.Type() == nchess.King && pc.Color() == us {
			kingSq, found = sq, true
			break
		}
	}
	if !found {
		return false
	}
	return squareAttackedBy(squares, kingSq, us.Other())
}

var (
	knightSteps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookRays    = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopRays  = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

func squareAttackedBy(squares map[nchess.Square]nchess.Piece, target nchess.Square, by nchess.Color) bool {
	tf := int(target.File())
	tr := int(target.Rank())

	// pawns: a white pawn one rank below (tf±1, tr-1) attacks target
	pawnRank := tr - 1
	if by == nchess.Black {
		pawnRank = tr + 1
	}
	for _, df := range []int{-1, 1} {
		if pc := pieceAt(squares, tf+df, pawnRank); pc.Type() == nchess.Pawn && pc.Color() == by {
			return true
		}
	}

	for _, s := range knightSteps {
		if pc := pieceAt(squares, tf+s[0], tr+s[1]); pc.Type() == nchess.Knight && pc.Color() == by {
			return true
		}
	}

	for _, s := range kingSteps {
		if pc := pieceAt(squares, tf+s[0], tr+s[1]); pc.Type() == nchess.King && pc.Color() == by {
			return true
		}
	}

	if rayHits(squares, tf, tr, rookRays, by, nchess.Rook) {
		return true
	}
	if rayHits(squares, tf, tr, bishopRays, by, nchess.Bishop) {
		return true
	}
	return false
}

// rayHits walks each ray until a piece blocks it and reports whether
// that piece is an attacker of the given slider type (or a queen).
func rayHits(squares map[nchess.Square]nchess.Piece, tf, tr int, rays [4][2]int, by nchess.Color, slider nchess.PieceType) bool {
	for _, ray := range rays {
		f, r := tf+ray[0], tr+ray[1]
		for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
			pc := pieceAt(squares, f, r)
			if pc != nchess.NoPiece {
				if pc.Color() == by && (pc.Type() == slider || pc.Type() == nchess.Queen) {
					return true
				}
				break
			}
			f += ray[0]
			r += ray[1]
		}
	}
	return false
}

func pieceAt(squares map[nchess.Square]nchess.Piece, f, r int) nchess.Piece {
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return nchess.NoPiece
	}
	return squares[nchess.NewSquare(nchess.File(f), nchess.Rank(r))]
}
