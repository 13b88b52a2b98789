package cipher

import "context"

// MirrorEncrypt appends the reverse of text to itself.
func MirrorEncrypt(text string) (string, error) {
	return mirror("mirror_encrypt", []byte(text), false)
}

// MirrorDecrypt keeps the first half of text. For an odd-length input the
// middle character is dropped.
func MirrorDecrypt(text string) (string, error) {
	return mirror("mirror_decrypt", []byte(text), true)
}

func mirror(op string, input []byte, decrypt bool) (string, error) {
	runes, err := textRunes(op, input)
	if err != nil {
		return "", err
	}
	if decrypt {
		return string(runes[:len(runes)/2]), nil
	}

	out := make([]rune, 2*len(runes))
	copy(out, runes)
	for i, r := range runes {
		out[len(out)-1-i] = r
	}
	return string(out), nil
}

// MirrorOp implements both directions of mirror padding
type MirrorOp struct {
	BaseOperation
	decrypt bool
}

func (op *MirrorOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := mirror(op.Name(), input, op.decrypt)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func init() {
	registerPair(
		&MirrorOp{BaseOperation: BaseOperation{
			NameValue:        "mirror_encrypt",
			TypeValue:        OperationTypeEncrypt,
			DescriptionValue: "Append the reversed text (palindromic padding)",
		}},
		&MirrorOp{
			BaseOperation: BaseOperation{
				NameValue:        "mirror_decrypt",
				TypeValue:        OperationTypeDecrypt,
				DescriptionValue: "Keep the first half of palindromic padding",
			},
			decrypt: true,
		},
	)
}
