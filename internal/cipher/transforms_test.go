package cipher

import (
	"context"
	"errors"
	"testing"
)

func TestModularCipher(t *testing.T) {
	encrypted, err := ModularEncrypt("HELLO WORLD", 7)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if []rune(encrypted)[0] != rune('H'*7%255) {
		t.Errorf("expected first code %d, got %d", 'H'*7%255, []rune(encrypted)[0])
	}

	decrypted, err := ModularDecrypt(encrypted, 7)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if decrypted != "HELLO WORLD" {
		t.Errorf("expected %q, got %q", "HELLO WORLD", decrypted)
	}
}

func TestModularRejectsNonCoprimeKeys(t *testing.T) {
	for _, key := range []int{0, 3, 5, 15, 17, 51, 85, 255, 510, -3} {
		if _, err := ModularEncrypt("HELLO", key); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("key %d: expected invalid parameter, got %v", key, err)
		}
		if _, err := ModularDecrypt("HELLO", key); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("key %d: expected invalid parameter on decrypt, got %v", key, err)
		}
	}

	var pe *ParamError
	_, err := ModularEncrypt("HELLO", 15)
	if !errors.As(err, &pe) || pe.Param != "key" {
		t.Fatalf("expected *ParamError for key, got %v", err)
	}
}

func TestModularRejectsCodesOutsideByte(t *testing.T) {
	for _, input := range []string{"ÿ", "ok€"} {
		_, err := ModularEncrypt(input, 7)
		var de *DomainError
		if !errors.As(err, &de) {
			t.Fatalf("%q: expected *DomainError, got %v", input, err)
		}
		if !errors.Is(err, ErrDomainViolation) {
			t.Errorf("%q: expected ErrDomainViolation", input)
		}
	}
}

func TestIsValidKey(t *testing.T) {
	tests := []struct {
		key  int
		want bool
	}{
		{1, true}, {2, true}, {7, true}, {254, true}, {256, true},
		{0, false}, {3, false}, {5, false}, {17, false}, {255, false},
	}
	for _, tt := range tests {
		if got := IsValidKey(tt.key); got != tt.want {
			t.Errorf("IsValidKey(%d) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestPrimeCipher(t *testing.T) {
	for _, p := range []int{2, 7, 11, 13, 251, 257} {
		encrypted, err := PrimeEncrypt("Prime Product", p)
		if err != nil {
			t.Fatalf("prime %d: encrypt failed: %v", p, err)
		}
		decrypted, err := PrimeDecrypt(encrypted, p)
		if err != nil {
			t.Fatalf("prime %d: decrypt failed: %v", p, err)
		}
		if decrypted != "Prime Product" {
			t.Errorf("prime %d: expected round trip, got %q", p, decrypted)
		}
	}

	for _, p := range []int{3, 5, 17, 0, 1, 4, 9, -7} {
		if _, err := PrimeEncrypt("x", p); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("prime %d: expected invalid parameter, got %v", p, err)
		}
		if _, err := PrimeDecrypt("x", p); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("prime %d: expected invalid parameter on decrypt, got %v", p, err)
		}
	}
}

func TestModularOperationParams(t *testing.T) {
	ctx := context.Background()
	op, _ := GetOperation("modular_encrypt")

	tests := []struct {
		name    string
		params  map[string]interface{}
		wantErr bool
	}{
		{"int", map[string]interface{}{"key": 7}, false},
		{"json number", map[string]interface{}{"key": float64(7)}, false},
		{"string", map[string]interface{}{"key": "7"}, false},
		{"missing", nil, true},
		{"fractional", map[string]interface{}{"key": 7.5}, true},
		{"not a number", map[string]interface{}{"key": "seven"}, true},
		{"wrong type", map[string]interface{}{"key": true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := op.Execute(ctx, []byte("HELLO"), tt.params)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidParameter) {
					t.Fatalf("expected invalid parameter, got %v", err)
				}
				if out != nil {
					t.Errorf("expected no output on error, got %q", out)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPairwiseSwap(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"A", "A"},
		{"AB", "BA"},
		{"ABC", "BAC"},
		{"ABCD", "BADC"},
		{"héllo", "éhllo"},
	}

	for _, tt := range tests {
		got, err := SwapPairs(tt.input)
		if err != nil {
			t.Fatalf("SwapPairs(%q): %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("SwapPairs(%q) = %q, want %q", tt.input, got, tt.expected)
		}
		back, _ := SwapPairs(got)
		if back != tt.input {
			t.Errorf("SwapPairs is not self-inverse for %q: got %q", tt.input, back)
		}
	}
}

func TestPairwiseSwapDirectionsAgree(t *testing.T) {
	ctx := context.Background()
	enc, _ := GetOperation("pairwise_swap_encrypt")
	dec, _ := GetOperation("pairwise_swap_decrypt")

	for _, input := range []string{"AB", "HELLO WORLD", "odd"} {
		a, _ := enc.Execute(ctx, []byte(input), nil)
		b, _ := dec.Execute(ctx, []byte(input), nil)
		if string(a) != string(b) {
			t.Errorf("encrypt and decrypt differ for %q: %q vs %q", input, a, b)
		}
	}

	out, _ := enc.Execute(ctx, []byte("AB"), nil)
	if runes := []rune(string(out)); runes[0] != 'B' || runes[1] != 'A' {
		t.Errorf("expected codes [B A], got %q", out)
	}
}

func TestShuffle(t *testing.T) {
	encrypted, err := ShuffleEncrypt("abc", []int{2, 0, 1})
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if encrypted != "cab" {
		t.Errorf("expected %q, got %q", "cab", encrypted)
	}

	decrypted, err := ShuffleDecrypt(encrypted, []int{2, 0, 1})
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if decrypted != "abc" {
		t.Errorf("expected %q, got %q", "abc", decrypted)
	}
}

func TestShuffleRejectsBadKeys(t *testing.T) {
	tests := []struct {
		name string
		key  []int
	}{
		{"short", []int{0, 1}},
		{"long", []int{0, 1, 2, 3}},
		{"repeat", []int{0, 0, 1}},
		{"out of range", []int{0, 1, 3}},
		{"negative", []int{-1, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ShuffleEncrypt("abc", tt.key); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("encrypt: expected invalid parameter, got %v", err)
			}
			if _, err := ShuffleDecrypt("abc", tt.key); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("decrypt: expected invalid parameter, got %v", err)
			}
		})
	}
}

func TestShuffleKeyFormats(t *testing.T) {
	ctx := context.Background()
	op, _ := GetOperation("shuffle_encrypt")

	for _, key := range []interface{}{
		[]int{2, 0, 1},
		[]interface{}{float64(2), float64(0), float64(1)},
		[]float64{2, 0, 1},
		"2,0,1",
		"[2, 0, 1]",
	} {
		out, err := op.Execute(ctx, []byte("abc"), map[string]interface{}{"key": key})
		if err != nil {
			t.Fatalf("key %#v: %v", key, err)
		}
		if string(out) != "cab" {
			t.Errorf("key %#v: expected %q, got %q", key, "cab", out)
		}
	}
}

func TestGenerateShuffleKey(t *testing.T) {
	key := GenerateShuffleKey(26)
	if err := validatePermutation("test", key, 26); err != nil {
		t.Fatalf("generated key is not a permutation: %v", err)
	}

	text := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	encrypted, err := ShuffleEncrypt(text, key)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	decrypted, _ := ShuffleDecrypt(encrypted, key)
	if decrypted != text {
		t.Errorf("expected %q, got %q", text, decrypted)
	}

	if got := GenerateShuffleKey(0); len(got) != 0 {
		t.Errorf("expected empty key, got %v", got)
	}
}

func TestGenerateMultiplicativeKeys(t *testing.T) {
	for i := 0; i < 50; i++ {
		if k := GenerateModularKey(); !IsValidKey(k) || k < 2 || k >= Modulus {
			t.Fatalf("GenerateModularKey returned unusable key %d", k)
		}
		p := GeneratePrimeKey()
		if _, err := PrimeEncrypt("x", p); err != nil {
			t.Fatalf("GeneratePrimeKey returned %d: %v", p, err)
		}
	}
}

func TestSpiral(t *testing.T) {
	tests := []struct {
		input    string
		size     int
		expected string
	}{
		{"ABCDEFGHI", 3, "ABCFIHGDE"},
		{"HELLO", 3, "HEL    LO"},
		{"ABCD", 2, "ABDC"},
		{"X", 1, "X"},
		{"ABCDEFGHIJKLMNOP", 4, "ABCDHLPONMIEFGKJ"},
	}

	for _, tt := range tests {
		got, err := SpiralEncrypt(tt.input, tt.size)
		if err != nil {
			t.Fatalf("SpiralEncrypt(%q, %d): %v", tt.input, tt.size, err)
		}
		if got != tt.expected {
			t.Errorf("SpiralEncrypt(%q, %d) = %q, want %q", tt.input, tt.size, got, tt.expected)
		}
		back, err := SpiralDecrypt(got, tt.size)
		if err != nil {
			t.Fatalf("SpiralDecrypt(%q, %d): %v", got, tt.size, err)
		}
		if back != tt.input {
			t.Errorf("SpiralDecrypt(%q, %d) = %q, want %q", got, tt.size, back, tt.input)
		}
	}
}

func TestSpiralRejectsBadSizes(t *testing.T) {
	if _, err := SpiralEncrypt("HELLO", 2); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("size 2 for 5 characters: expected invalid parameter, got %v", err)
	}
	if _, err := SpiralEncrypt("HELLO", 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("size 0: expected invalid parameter, got %v", err)
	}
	if _, err := SpiralEncrypt("HELLO", maxSpiralSize+1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("oversized grid: expected invalid parameter, got %v", err)
	}
	if _, err := SpiralDecrypt("HELLO", 3); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("short ciphertext: expected invalid parameter, got %v", err)
	}
}

func TestSpiralOrderCoversGrid(t *testing.T) {
	for size := 1; size <= 9; size++ {
		order := spiralOrder(size)
		if len(order) != size*size {
			t.Fatalf("size %d: expected %d cells, got %d", size, size*size, len(order))
		}
		seen := make(map[int]bool, len(order))
		for _, idx := range order {
			if seen[idx] {
				t.Fatalf("size %d: cell %d visited twice", size, idx)
			}
			seen[idx] = true
		}
	}
}

func TestWordShift(t *testing.T) {
	encrypted, err := WordShiftEncrypt("HELLO WORLD")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if encrypted != `MJQQT \TWQI` {
		t.Errorf("expected %q, got %q", `MJQQT \TWQI`, encrypted)
	}

	encrypted, _ = WordShiftEncrypt("a bc")
	if encrypted != "b cd" {
		t.Errorf("expected %q, got %q", "b cd", encrypted)
	}
	decrypted, _ := WordShiftDecrypt(encrypted)
	if decrypted != "a bc" {
		t.Errorf("expected %q, got %q", "a bc", decrypted)
	}
}

func TestWordShiftDomain(t *testing.T) {
	if _, err := WordShiftEncrypt("tab\there"); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("control character: expected domain violation, got %v", err)
	}
	if _, err := WordShiftEncrypt("héllo"); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("non-ASCII: expected domain violation, got %v", err)
	}
	// '~' shifted by 1 would become a space
	if _, err := WordShiftEncrypt("~"); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("separator collision: expected domain violation, got %v", err)
	}
}

func TestBoard(t *testing.T) {
	row, col, ok := StandardBoard().Position('A')
	if !ok || row != 0 || col != 0 {
		t.Fatalf("expected A at (0,0), got (%d,%d) ok=%v", row, col, ok)
	}
	if got := StandardBoard().At(row+1, col+2); got != 'K' {
		t.Fatalf("expected K at (1,2), got %q", got)
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"A", "K"},
		{"HELLO", "JOVVQ"},
		{"hello", "JOVVQ"},
		{"`", "B"},
		{"A B", "K L"},
		{"é~", "É~"},
	}

	for _, tt := range tests {
		got, err := BoardEncrypt(tt.input)
		if err != nil {
			t.Fatalf("BoardEncrypt(%q): %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("BoardEncrypt(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}

	back, _ := BoardDecrypt("K")
	if back != "A" {
		t.Errorf("BoardDecrypt(K) = %q, want A", back)
	}
	back, _ = BoardDecrypt("JOVVQ")
	if back != "HELLO" {
		t.Errorf("BoardDecrypt(JOVVQ) = %q, want HELLO", back)
	}
}

func TestMirror(t *testing.T) {
	encrypted, _ := MirrorEncrypt("abc")
	if encrypted != "abccba" {
		t.Errorf("expected %q, got %q", "abccba", encrypted)
	}
	decrypted, _ := MirrorDecrypt(encrypted)
	if decrypted != "abc" {
		t.Errorf("expected %q, got %q", "abc", decrypted)
	}

	// odd-length input loses its middle character
	decrypted, _ = MirrorDecrypt("abcde")
	if decrypted != "ab" {
		t.Errorf("expected %q, got %q", "ab", decrypted)
	}

	decrypted, _ = MirrorDecrypt("abba")
	if decrypted != "ab" {
		t.Errorf("expected %q, got %q", "ab", decrypted)
	}
}

func TestCoordinate(t *testing.T) {
	encrypted, err := CoordinateEncrypt("A")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if encrypted != "b" {
		t.Errorf("expected %q, got %q", "b", encrypted)
	}

	if _, err := CoordinateEncrypt("ß"); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("code 223: expected domain violation, got %v", err)
	}
	if _, err := CoordinateDecrypt(" "); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("code 32: expected domain violation, got %v", err)
	}
	if _, err := CoordinateDecrypt("€"); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("code above 255: expected domain violation, got %v", err)
	}

	decrypted, _ := CoordinateDecrypt("ÿ")
	if decrypted != "Þ" {
		t.Errorf("expected %q, got %q", "Þ", decrypted)
	}
}
