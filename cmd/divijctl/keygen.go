package main

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/DivijChawla/DivijEncrypt/internal/cipher"
)

func keygenCommand() *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "Generate keys for the keyed transforms",
		Subcommands: []*cli.Command{
			{
				Name:  "shuffle",
				Usage: "Random permutation key for shuffle_encrypt",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "length", Aliases: []string{"n"}, Usage: "text length in characters", Required: true},
				},
				Action: func(c *cli.Context) error {
					n := c.Int("length")
					if n <= 0 {
						return cli.Exit("--length must be positive", 2)
					}
					key := cipher.GenerateShuffleKey(n)
					parts := make([]string, len(key))
					for i, k := range key {
						parts[i] = strconv.Itoa(k)
					}
					_, err := fmt.Fprintln(c.App.Writer, strings.Join(parts, ","))
					return err
				},
			},
			{
				Name:  "modular",
				Usage: "Random multiplier coprime with 255",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintln(c.App.Writer, cipher.GenerateModularKey())
					return err
				},
			},
			{
				Name:  "prime",
				Usage: "Random prime multiplier for prime_encrypt",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintln(c.App.Writer, cipher.GeneratePrimeKey())
					return err
				},
			},
			{
				Name:  "seed",
				Usage: "Random seed for the symbol table",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintln(c.App.Writer, rand.Int64N(1<<53))
					return err
				},
			},
		},
	}
}
