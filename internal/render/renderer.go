// Package render draws a position as a PNG: square grid, embedded SVG
// piece set, board coordinates and an optional last-move highlight.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const defaultSquareSize = 72

type MoveHighlight struct {
	From nchess.Square
	To   nchess.Square
}

type Options struct {
	SquareSize int
	Highlight  *MoveHighlight
}

var (
	lightSquare    = color.RGBA{240, 217, 181, 255}
	darkSquare     = color.RGBA{181, 136, 99, 255}
	highlightFill  = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	coordinateText = color.NRGBA{R: 60, G: 48, B: 36, A: 255}
	marginFill     = color.RGBA{46, 42, 38, 255}
)

// RenderPNG rasterizes the board. The margin leaves room for file and
// rank labels.
func RenderPNG(ctx context.Context, board *nchess.Board, opts Options) ([]byte, error) {
	if board == nil {
		return nil, fmt.Errorf("board is nil")
	}
	squareSize := opts.SquareSize
	if squareSize <= 0 {
		squareSize = defaultSquareSize
	}

	const margin = 24
	boardSize := squareSize * 8
	total := boardSize + margin*2
	origin := image.Point{X: margin, Y: margin}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(image.Rect(0, 0, total, total))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(marginFill), image.Point{}, imagedraw.Src)

	drawSquares(img, squareSize, origin)
	if opts.Highlight != nil {
		drawSquareOverlay(img, opts.Highlight.From, squareSize, origin)
		drawSquareOverlay(img, opts.Highlight.To, squareSize, origin)
	}
	if err := drawPieces(img, board, squareSize, origin); err != nil {
		return nil, err
	}
	drawCoordinates(img, squareSize, origin, margin)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// FromFEN parses a FEN string into a board for rendering.
func FromFEN(fen string) (*nchess.Board, error) {
	opt, err := nchess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	return nchess.NewGame(opt).Position().Board(), nil
}

// HighlightFromUCI turns a coordinate move string into a highlight
// pair. Returns false for anything that is not a well-formed move.
func HighlightFromUCI(move string) (*MoveHighlight, bool) {
	move = strings.ToLower(strings.TrimSpace(move))
	if len(move) != 4 && len(move) != 5 {
		return nil, false
	}
	from, ok := squareFromCoord(move[0:2])
	if !ok {
		return nil, false
	}
	to, ok := squareFromCoord(move[2:4])
	if !ok {
		return nil, false
	}
	return &MoveHighlight{From: from, To: to}, true
}

func squareFromCoord(s string) (nchess.Square, bool) {
	f := int(s[0]) - 'a'
	r := int(s[1]) - '1'
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return 0, false
	}
	return nchess.NewSquare(nchess.File(f), nchess.Rank(r)), true
}

func drawSquares(dst imagedraw.Image, squareSize int, origin image.Point) {
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			sq := nchess.NewSquare(nchess.File(file), nchess.Rank(rank))
			imagedraw.Draw(dst, squareRect(sq, squareSize, origin), image.NewUniform(squareColor(sq)), image.Point{}, imagedraw.Src)
		}
	}
}

func drawPieces(dst imagedraw.Image, board *nchess.Board, squareSize int, origin image.Point) error {
	boardMap := board.SquareMap()
	for sq, piece := range boardMap {
		if piece == nchess.NoPiece {
			continue
		}
		img, err := renderPieceImage(piece, squareSize)
		if err != nil {
			return err
		}
		rect := squareRect(sq, squareSize, origin)
		imagedraw.Draw(dst, rect, img, image.Point{}, imagedraw.Over)
	}
	return nil
}

func drawSquareOverlay(img *image.RGBA, sq nchess.Square, squareSize int, origin image.Point) {
	rect := squareRect(sq, squareSize, origin)
	imagedraw.Draw(img, rect, image.NewUniform(highlightFill), image.Point{}, imagedraw.Over)
}

func drawCoordinates(img *image.RGBA, squareSize int, origin image.Point, margin int) {
	drawer := &font.Drawer{
		Dst:  img,
		Face: basicfont.Face7x13,
		Src:  image.NewUniform(coordinateText),
	}
	boardEndY := origin.Y + 8*squareSize
	ascent := basicfont.Face7x13.Metrics().Ascent.Ceil()

	for i := 0; i < 8; i++ {
		// files a-h under the bottom edge
		fileLabel := string(rune('a' + i))
		fileX := origin.X + i*squareSize + squareSize/2
		drawCentered(drawer, fileLabel, fileX, boardEndY+margin/2+ascent/2)

		// ranks 8-1 down the left edge
		rankLabel := string(rune('8' - i))
		rankY := origin.Y + i*squareSize + squareSize/2 + ascent/2
		drawCentered(drawer, rankLabel, origin.X-margin/2, rankY)
	}
}

func drawCentered(drawer *font.Drawer, text string, centerX, baseline int) {
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

func squareRect(sq nchess.Square, squareSize int, origin image.Point) image.Rectangle {
	col := int(sq.File())
	row := 7 - int(sq.Rank())
	x := origin.X + col*squareSize
	y := origin.Y + row*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

func squareColor(sq nchess.Square) color.Color {
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		return darkSquare
	}
	return lightSquare
}
