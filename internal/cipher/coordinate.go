package cipher

import "context"

const gridWidth = 16

// coordinateShift is the (x, y) vector added on encrypt. In code terms it
// adds 1 + 2*16 = 33.
var coordinateShift = [2]int{1, 2}

const (
	maxCoordinatePlain  = 0xff - 33
	minCoordinateCipher = 33
)

// CoordinateEncrypt treats each code as (code%16, code/16) on a 16-wide
// grid, shifts it by (+1, +2) and maps it back to a code. Codes above 222
// would leave the byte range and are rejected.
func CoordinateEncrypt(text string) (string, error) {
	return coordinateMove("coordinate_encrypt", []byte(text), false)
}

// CoordinateDecrypt applies the (-1, -2) shift.
func CoordinateDecrypt(text string) (string, error) {
	return coordinateMove("coordinate_decrypt", []byte(text), true)
}

func coordinateMove(op string, input []byte, decrypt bool) (string, error) {
	runes, err := textRunes(op, input)
	if err != nil {
		return "", err
	}

	dx, dy := coordinateShift[0], coordinateShift[1]
	if decrypt {
		dx, dy = -dx, -dy
	}

	out := make([]rune, len(runes))
	for i, r := range runes {
		if decrypt && (r < minCoordinateCipher || r > 0xff) {
			return "", domainError(op, i, r, "code must lie in [33, 255]")
		}
		if !decrypt && r > maxCoordinatePlain {
			return "", domainError(op, i, r, "code must not exceed 222")
		}
		x, y := int(r)%gridWidth, int(r)/gridWidth
		x, y = x+dx, y+dy
		out[i] = rune(x + y*gridWidth)
	}
	return string(out), nil
}

// CoordinateOp shifts characters on a 16-column code grid
type CoordinateOp struct {
	BaseOperation
	decrypt bool
}

func (op *CoordinateOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := coordinateMove(op.Name(), input, op.decrypt)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func init() {
	registerPair(
		&CoordinateOp{BaseOperation: BaseOperation{
			NameValue:        "coordinate_encrypt",
			TypeValue:        OperationTypeEncrypt,
			DescriptionValue: "Shift character codes by (+1,+2) on a 16-column grid",
		}},
		&CoordinateOp{
			BaseOperation: BaseOperation{
				NameValue:        "coordinate_decrypt",
				TypeValue:        OperationTypeDecrypt,
				DescriptionValue: "Shift character codes by (-1,-2) on a 16-column grid",
			},
			decrypt: true,
		},
	)
}
