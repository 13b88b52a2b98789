package cipher

import (
	"context"
	"math/big"
	"math/rand/v2"
)

// Modulus is the fixed base of the multiplicative ciphers. Keys must be
// coprime with it; 255 = 3 * 5 * 17.
const Modulus = 255

// ModularEncrypt multiplies every character code by key modulo 255.
func ModularEncrypt(text string, key int) (string, error) {
	return multiplyText("modular_encrypt", "key", []byte(text), key, checkCoprime, false)
}

// ModularDecrypt multiplies by the modular inverse of key.
func ModularDecrypt(text string, key int) (string, error) {
	return multiplyText("modular_decrypt", "key", []byte(text), key, checkCoprime, true)
}

// PrimeEncrypt multiplies every character code by prime modulo 255.
func PrimeEncrypt(text string, prime int) (string, error) {
	return multiplyText("prime_encrypt", "prime", []byte(text), prime, checkPrime, false)
}

// PrimeDecrypt multiplies by the modular inverse of prime.
func PrimeDecrypt(text string, prime int) (string, error) {
	return multiplyText("prime_decrypt", "prime", []byte(text), prime, checkPrime, true)
}

// IsValidKey reports whether key has an inverse modulo 255.
func IsValidKey(key int) bool {
	return gcd(normalizeKey(key), Modulus) == 1
}

// GenerateModularKey returns a random key in [2,254] coprime with 255.
func GenerateModularKey() int {
	for {
		if k := 2 + rand.IntN(Modulus-2); IsValidKey(k) {
			return k
		}
	}
}

// GeneratePrimeKey returns a random prime below 255 that does not divide it.
func GeneratePrimeKey() int {
	for {
		p := 2 + rand.IntN(Modulus-2)
		if checkPrime("", "", p) == nil {
			return p
		}
	}
}

type keyCheck func(op, param string, key int) error

func checkCoprime(op, param string, key int) error {
	if !IsValidKey(key) {
		return paramErrorf(op, param, "%d is not coprime with %d", key, Modulus)
	}
	return nil
}

func checkPrime(op, param string, p int) error {
	if p < 2 || !big.NewInt(int64(p)).ProbablyPrime(20) {
		return paramErrorf(op, param, "%d is not prime", p)
	}
	return checkCoprime(op, param, p)
}

// multiplyText validates the key before touching the input so a bad key
// never yields partial output.
func multiplyText(op, param string, input []byte, key int, check keyCheck, invert bool) (string, error) {
	if err := check(op, param, key); err != nil {
		return "", err
	}
	runes, err := textRunes(op, input)
	if err != nil {
		return "", err
	}

	factor := normalizeKey(key)
	if invert {
		factor = modInverse(factor)
	}

	out := make([]rune, len(runes))
	for i, r := range runes {
		if r >= Modulus {
			return "", domainError(op, i, r, "character code must be below 255")
		}
		out[i] = rune(int(r) * factor % Modulus)
	}
	return string(out), nil
}

func normalizeKey(key int) int {
	k := key % Modulus
	if k < 0 {
		k += Modulus
	}
	return k
}

// modInverse assumes gcd(k, 255) == 1.
func modInverse(k int) int {
	inv := new(big.Int).ModInverse(big.NewInt(int64(k)), big.NewInt(Modulus))
	return int(inv.Int64())
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

var (
	modularParams = []ParamSpec{{
		Name:        "key",
		Type:        "int",
		Required:    true,
		Description: "multiplier coprime with 255",
	}}
	primeParams = []ParamSpec{{
		Name:        "prime",
		Type:        "int",
		Required:    true,
		Description: "prime multiplier other than 3, 5 or 17",
	}}
)

// ModularOp multiplies character codes by a key modulo 255
type ModularOp struct {
	BaseOperation
	param  string
	check  keyCheck
	invert bool
}

func (op *ModularOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := intParam(op.Name(), params, op.param)
	if err != nil {
		return nil, err
	}
	out, err := multiplyText(op.Name(), op.param, input, key, op.check, op.invert)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func init() {
	registerPair(
		&ModularOp{
			BaseOperation: BaseOperation{
				NameValue:        "modular_encrypt",
				TypeValue:        OperationTypeEncrypt,
				DescriptionValue: "Multiply character codes by a key modulo 255",
				ParamsValue:      modularParams,
			},
			param: "key",
			check: checkCoprime,
		},
		&ModularOp{
			BaseOperation: BaseOperation{
				NameValue:        "modular_decrypt",
				TypeValue:        OperationTypeDecrypt,
				DescriptionValue: "Multiply character codes by the inverse key modulo 255",
				ParamsValue:      modularParams,
			},
			param:  "key",
			check:  checkCoprime,
			invert: true,
		},
	)

	registerPair(
		&ModularOp{
			BaseOperation: BaseOperation{
				NameValue:        "prime_encrypt",
				TypeValue:        OperationTypeEncrypt,
				DescriptionValue: "Multiply character codes by a prime modulo 255",
				ParamsValue:      primeParams,
			},
			param: "prime",
			check: checkPrime,
		},
		&ModularOp{
			BaseOperation: BaseOperation{
				NameValue:        "prime_decrypt",
				TypeValue:        OperationTypeDecrypt,
				DescriptionValue: "Multiply character codes by the inverse prime modulo 255",
				ParamsValue:      primeParams,
			},
			param:  "prime",
			check:  checkPrime,
			invert: true,
		},
	)
}
