package cipher

import (
	"context"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const boardSize = 8

// boardSymbols fills an 8×8 board row by row: upper-case letters, digits,
// then the first 28 ASCII punctuation marks.
const boardSymbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!\"#$%&'()*+,-./:;<=>?@[\\]^_`"

// Board is an immutable 8×8 grid of symbols.
type Board struct {
	cells    [boardSize * boardSize]rune
	position map[rune]int
}

func newBoard(symbols string) *Board {
	b := &Board{position: make(map[rune]int, boardSize*boardSize)}
	for i, r := range []rune(symbols) {
		b.cells[i] = r
		b.position[r] = i
	}
	return b
}

var standardBoard = newBoard(boardSymbols)

// StandardBoard returns the board used by the board_* operations
func StandardBoard() *Board {
	return standardBoard
}

// Position returns the row and column of r, if it is on the board.
func (b *Board) Position(r rune) (row, col int, ok bool) {
	idx, ok := b.position[r]
	if !ok {
		return 0, 0, false
	}
	return idx / boardSize, idx % boardSize, true
}

// At returns the symbol on the given square, wrapping both coordinates.
func (b *Board) At(row, col int) rune {
	return b.cells[mod(row, boardSize)*boardSize+mod(col, boardSize)]
}

// Move upper-cases text and moves every on-board symbol by (dRow, dCol).
// Symbols that are not on the board pass through.
func (b *Board) Move(text string, dRow, dCol int) string {
	upper := cases.Upper(language.Und).String(text)
	out := []rune(upper)
	for i, r := range out {
		row, col, ok := b.Position(r)
		if !ok {
			continue
		}
		out[i] = b.At(row+dRow, col+dCol)
	}
	return string(out)
}

// BoardEncrypt moves each symbol one row down and two columns right.
// Case is not preserved.
func BoardEncrypt(text string) (string, error) {
	return boardMove("board_encrypt", []byte(text), 1, 2)
}

// BoardDecrypt moves each symbol one row up and two columns left.
func BoardDecrypt(text string) (string, error) {
	return boardMove("board_decrypt", []byte(text), -1, -2)
}

func boardMove(op string, input []byte, dRow, dCol int) (string, error) {
	runes, err := textRunes(op, input)
	if err != nil {
		return "", err
	}
	return standardBoard.Move(string(runes), dRow, dCol), nil
}

// BoardEncryptOp moves board symbols by (+1, +2)
type BoardEncryptOp struct {
	BaseOperation
}

func (op *BoardEncryptOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := boardMove(op.Name(), input, 1, 2)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// BoardDecryptOp moves board symbols by (-1, -2)
type BoardDecryptOp struct {
	BaseOperation
}

func (op *BoardDecryptOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := boardMove(op.Name(), input, -1, -2)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func init() {
	registerPair(
		&BoardEncryptOp{BaseOperation: BaseOperation{
			NameValue:        "board_encrypt",
			TypeValue:        OperationTypeEncrypt,
			DescriptionValue: "Knight-style (+1,+2) move on an 8x8 symbol board; upper-cases input",
		}},
		&BoardDecryptOp{BaseOperation: BaseOperation{
			NameValue:        "board_decrypt",
			TypeValue:        OperationTypeDecrypt,
			DescriptionValue: "Reverse (-1,-2) move on the 8x8 symbol board",
		}},
	)
}
