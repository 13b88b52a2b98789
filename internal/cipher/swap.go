package cipher

import "context"

// SwapPairs exchanges every adjacent pair of characters. A trailing odd
// character stays in place. The function is its own inverse.
func SwapPairs(text string) (string, error) {
	return swapPairs("pairwise_swap", []byte(text))
}

func swapPairs(op string, input []byte) (string, error) {
	runes, err := textRunes(op, input)
	if err != nil {
		return "", err
	}
	for i := 0; i+1 < len(runes); i += 2 {
		runes[i], runes[i+1] = runes[i+1], runes[i]
	}
	return string(runes), nil
}

// PairwiseSwapOp swaps adjacent characters; both directions share it
type PairwiseSwapOp struct {
	BaseOperation
}

func (op *PairwiseSwapOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := swapPairs(op.Name(), input)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func init() {
	registerPair(
		&PairwiseSwapOp{BaseOperation: BaseOperation{
			NameValue:        "pairwise_swap_encrypt",
			TypeValue:        OperationTypeEncrypt,
			DescriptionValue: "Swap every adjacent pair of characters",
		}},
		&PairwiseSwapOp{BaseOperation: BaseOperation{
			NameValue:        "pairwise_swap_decrypt",
			TypeValue:        OperationTypeDecrypt,
			DescriptionValue: "Swap every adjacent pair of characters (self-inverse)",
		}},
	)
}
