package cipher

import (
	"context"
	"strings"
)

const (
	printableLow   = 32
	printableRange = 95
)

// WordShiftEncrypt shifts each space-separated word through the 95
// printable ASCII symbols by the length of the word before it. The first
// word is shifted by its own length.
func WordShiftEncrypt(text string) (string, error) {
	return wordShift("word_shift_encrypt", []byte(text), 1)
}

// WordShiftDecrypt shifts back using the same chain of word lengths.
func WordShiftDecrypt(text string) (string, error) {
	return wordShift("word_shift_decrypt", []byte(text), -1)
}

func wordShift(op string, input []byte, direction int) (string, error) {
	runes, err := textRunes(op, input)
	if err != nil {
		return "", err
	}
	for i, r := range runes {
		if r < printableLow || r >= printableLow+printableRange {
			return "", domainError(op, i, r, "outside printable ASCII")
		}
	}

	words := strings.Split(string(runes), " ")
	shifted := make([]string, len(words))
	prevLen := len([]rune(words[0]))
	pos := 0
	for i, word := range words {
		chars := []rune(word)
		shift := direction * prevLen
		for j, c := range chars {
			chars[j] = rune(mod(int(c)-printableLow+shift, printableRange) + printableLow)
			// a space inside a word would split it on the way back
			if chars[j] == ' ' {
				return "", domainError(op, pos+j, c, "shifts onto the word separator")
			}
		}
		shifted[i] = string(chars)
		prevLen = len(chars)
		pos += len(chars) + 1
	}
	return strings.Join(shifted, " "), nil
}

func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// WordShiftEncryptOp applies the chained word shift
type WordShiftEncryptOp struct {
	BaseOperation
}

func (op *WordShiftEncryptOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := wordShift(op.Name(), input, 1)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// WordShiftDecryptOp reverses the chained word shift
type WordShiftDecryptOp struct {
	BaseOperation
}

func (op *WordShiftDecryptOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := wordShift(op.Name(), input, -1)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func init() {
	registerPair(
		&WordShiftEncryptOp{BaseOperation: BaseOperation{
			NameValue:        "word_shift_encrypt",
			TypeValue:        OperationTypeEncrypt,
			DescriptionValue: "Shift each word by the length of the previous word",
		}},
		&WordShiftDecryptOp{BaseOperation: BaseOperation{
			NameValue:        "word_shift_decrypt",
			TypeValue:        OperationTypeDecrypt,
			DescriptionValue: "Undo the chained word-length shift",
		}},
	)
}
