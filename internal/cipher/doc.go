// Package cipher provides the toy cipher transforms and the machinery to
// look them up, chain them and reverse them.
//
// None of these transforms is cryptographically sound. They are
// obfuscation exercises.
//
// # Quick Start
//
// Every transform is available as a pair of plain functions:
//
//	out, err := cipher.ModularEncrypt("HELLO WORLD", 7)
//	back, err := cipher.ModularDecrypt(out, 7)
//
// and as a pair of registered operations:
//
//	op, _ := cipher.GetOperation("modular_encrypt")
//	out, err := op.Execute(ctx, []byte("HELLO WORLD"), map[string]interface{}{"key": 7})
//	inverse, _ := op.Reverse()
//
// # Transforms
//
//   - shuffle_encrypt/decrypt - reorder by a permutation key (param key)
//   - symbol_map_encrypt/decrypt - printable characters to #rrggbb symbols (param seed, optional)
//   - pairwise_swap_encrypt/decrypt - swap adjacent characters, self-inverse
//   - modular_encrypt/decrypt - multiply codes by key mod 255 (param key)
//   - spiral_encrypt/decrypt - clockwise spiral read of a size×size grid (param size)
//   - word_shift_encrypt/decrypt - shift each word by the previous word's length
//   - board_encrypt/decrypt - (+1,+2) move on an 8x8 symbol board, upper-cases input
//   - prime_encrypt/decrypt - multiply codes by a prime mod 255 (param prime)
//   - mirror_encrypt/decrypt - append the reversed text
//   - coordinate_encrypt/decrypt - (+1,+2) shift on a 16-column code grid
//
// # Errors
//
// Parameter failures wrap ErrInvalidParameter and are reported before any
// output is produced. Characters outside a transform's domain wrap
// ErrDomainViolation. Use errors.Is, or errors.As with *ParamError and
// *DomainError for detail.
//
// # Pipelines
//
//	pipeline := &cipher.Pipeline{
//	    Operations: []cipher.OperationConfig{
//	        {Name: "mirror_encrypt"},
//	        {Name: "modular_encrypt", Parameters: map[string]interface{}{"key": 7}},
//	    },
//	    Reversible: true,
//	}
//	encrypted, _ := pipeline.Execute(ctx, []byte("secret"))
//	reversed, _ := pipeline.Reverse()
//	plain, _ := reversed.Execute(ctx, encrypted)
//
// RecipeManager stores named pipelines as YAML files.
//
// # Thread Safety
//
// Lookup tables are built during package initialization and never change.
// Operations are stateless, and the registry and RecipeManager lock
// internally, so everything here is safe for concurrent use.
package cipher
