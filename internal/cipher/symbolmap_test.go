package cipher

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
)

var symbolPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestSymbolTableIsBijective(t *testing.T) {
	table := NewSeededSymbolTable(7)

	seen := make(map[string]rune)
	for _, ch := range printableASCII {
		sym, ok := table.Symbol(ch)
		if !ok {
			t.Fatalf("no symbol for %q", ch)
		}
		if !symbolPattern.MatchString(sym) {
			t.Errorf("symbol %q for %q is not #rrggbb", sym, ch)
		}
		if prev, dup := seen[sym]; dup {
			t.Fatalf("symbol %s shared by %q and %q", sym, prev, ch)
		}
		seen[sym] = ch
	}
	if len(seen) != 100 {
		t.Errorf("expected 100 symbols, got %d", len(seen))
	}
}

func TestSeededSymbolTableIsDeterministic(t *testing.T) {
	a := NewSeededSymbolTable(42)
	b := NewSeededSymbolTable(42)

	encA, _ := a.Encrypt("HELLO WORLD")
	encB, _ := b.Encrypt("HELLO WORLD")
	if encA != encB {
		t.Errorf("same seed produced different ciphertexts: %q vs %q", encA, encB)
	}

	decrypted, err := b.Decrypt(encA)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if decrypted != "HELLO WORLD" {
		t.Errorf("expected %q, got %q", "HELLO WORLD", decrypted)
	}
}

func TestSymbolTableWidth(t *testing.T) {
	encrypted, err := DefaultSymbolTable().Encrypt("Hello, World!")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if len(encrypted) != 13*SymbolWidth {
		t.Errorf("expected %d characters, got %d", 13*SymbolWidth, len(encrypted))
	}
	if strings.Count(encrypted, "#") < 13 {
		t.Errorf("expected a marker per symbol in %q", encrypted)
	}
}

func TestSymbolTableDomain(t *testing.T) {
	table := NewSeededSymbolTable(1)

	if _, err := table.Encrypt("café"); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("non-printable input: expected domain violation, got %v", err)
	}
	if _, err := table.Decrypt("#00000"); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("short chunk: expected domain violation, got %v", err)
	}
	if _, err := table.Decrypt("#zzzzzz"); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("unknown symbol: expected domain violation, got %v", err)
	}
}

func TestSymbolMapOperationSeed(t *testing.T) {
	ctx := context.Background()
	enc, _ := GetOperation("symbol_map_encrypt")
	dec, _ := GetOperation("symbol_map_decrypt")

	seeded := map[string]interface{}{"seed": "99"}
	out, err := enc.Execute(ctx, []byte("seeded"), seeded)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	want, _ := NewSeededSymbolTable(99).Encrypt("seeded")
	if string(out) != want {
		t.Errorf("operation with seed should match NewSeededSymbolTable: %q vs %q", out, want)
	}

	back, err := dec.Execute(ctx, out, seeded)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if string(back) != "seeded" {
		t.Errorf("expected %q, got %q", "seeded", back)
	}

	if _, err := enc.Execute(ctx, []byte("x"), map[string]interface{}{"seed": "abc"}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("bad seed: expected invalid parameter, got %v", err)
	}
}
