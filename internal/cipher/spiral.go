package cipher

import (
	"context"
	"strings"
)

const (
	spiralPad     = ' '
	maxSpiralSize = 4096
)

// SpiralEncrypt lays text row by row into a size×size grid, padding with
// spaces, and reads it back in clockwise spiral order from the top-left.
func SpiralEncrypt(text string, size int) (string, error) {
	return spiralEncrypt("spiral_encrypt", []byte(text), size)
}

// SpiralDecrypt walks the same spiral to put every character back in its
// grid cell, then drops the trailing padding. Plaintext that itself ends
// in spaces loses them when it was shorter than size².
func SpiralDecrypt(text string, size int) (string, error) {
	return spiralDecrypt("spiral_decrypt", []byte(text), size)
}

func spiralEncrypt(op string, input []byte, size int) (string, error) {
	runes, err := textRunes(op, input)
	if err != nil {
		return "", err
	}
	if err := checkSpiralSize(op, size, len(runes)); err != nil {
		return "", err
	}

	cells := size * size
	grid := make([]rune, cells)
	copy(grid, runes)
	for i := len(runes); i < cells; i++ {
		grid[i] = spiralPad
	}

	out := make([]rune, 0, cells)
	for _, idx := range spiralOrder(size) {
		out = append(out, grid[idx])
	}
	return string(out), nil
}

func spiralDecrypt(op string, input []byte, size int) (string, error) {
	runes, err := textRunes(op, input)
	if err != nil {
		return "", err
	}
	if err := checkSpiralSize(op, size, len(runes)); err != nil {
		return "", err
	}
	if len(runes) != size*size {
		return "", paramErrorf(op, "size", "ciphertext has %d characters, want %d", len(runes), size*size)
	}

	grid := make([]rune, len(runes))
	for k, idx := range spiralOrder(size) {
		grid[idx] = runes[k]
	}
	return strings.TrimRight(string(grid), string(spiralPad)), nil
}

func checkSpiralSize(op string, size, n int) error {
	if size < 1 {
		return paramErrorf(op, "size", "must be positive, got %d", size)
	}
	if size > maxSpiralSize {
		return paramErrorf(op, "size", "must not exceed %d, got %d", maxSpiralSize, size)
	}
	if size*size < n {
		return paramErrorf(op, "size", "grid %dx%d cannot hold %d characters", size, size, n)
	}
	return nil
}

// spiralOrder lists row-major cell indexes in clockwise spiral order.
func spiralOrder(size int) []int {
	order := make([]int, 0, size*size)
	top, bottom, left, right := 0, size-1, 0, size-1
	for top <= bottom && left <= right {
		for c := left; c <= right; c++ {
			order = append(order, top*size+c)
		}
		top++
		for r := top; r <= bottom; r++ {
			order = append(order, r*size+right)
		}
		right--
		if top <= bottom {
			for c := right; c >= left; c-- {
				order = append(order, bottom*size+c)
			}
			bottom--
		}
		if left <= right {
			for r := bottom; r >= top; r-- {
				order = append(order, r*size+left)
			}
			left++
		}
	}
	return order
}

var spiralParams = []ParamSpec{{
	Name:        "size",
	Type:        "int",
	Required:    true,
	Description: "grid edge; size² must be at least the text length",
}}

// SpiralEncryptOp reads text out of a grid in spiral order
type SpiralEncryptOp struct {
	BaseOperation
}

func (op *SpiralEncryptOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	size, err := intParam(op.Name(), params, "size")
	if err != nil {
		return nil, err
	}
	out, err := spiralEncrypt(op.Name(), input, size)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// SpiralDecryptOp writes spiral-ordered text back into grid rows
type SpiralDecryptOp struct {
	BaseOperation
}

func (op *SpiralDecryptOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	size, err := intParam(op.Name(), params, "size")
	if err != nil {
		return nil, err
	}
	out, err := spiralDecrypt(op.Name(), input, size)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func init() {
	registerPair(
		&SpiralEncryptOp{BaseOperation: BaseOperation{
			NameValue:        "spiral_encrypt",
			TypeValue:        OperationTypeEncrypt,
			DescriptionValue: "Read a padded size×size grid in clockwise spiral order",
			ParamsValue:      spiralParams,
		}},
		&SpiralDecryptOp{BaseOperation: BaseOperation{
			NameValue:        "spiral_decrypt",
			TypeValue:        OperationTypeDecrypt,
			DescriptionValue: "Rebuild grid rows from clockwise spiral order",
			ParamsValue:      spiralParams,
		}},
	)
}
