package main

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/DivijChawla/DivijEncrypt/internal/config"
	"github.com/DivijChawla/DivijEncrypt/internal/redact"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "print",
				Usage: "Print the resolved configuration",
				Action: func(c *cli.Context) error {
					printResolvedConfig(c.App.Writer, envFrom(c).cfg)
					return nil
				},
			},
		},
	}
}

func printResolvedConfig(out io.Writer, cfg config.Config) {
	fmt.Fprintf(out, "api_addr: %s\n", cfg.APIAddr)
	fmt.Fprintf(out, "recipes_dir: %s\n", cfg.RecipesDir)
	if cfg.SymbolSeed != 0 {
		fmt.Fprintf(out, "symbol_seed: %s\n", redact.Masked)
	} else {
		fmt.Fprintln(out, "symbol_seed: 0")
	}
	fmt.Fprintln(out, "log:")
	fmt.Fprintf(out, "  level: %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "  json: %t\n", cfg.Log.JSON)
	fmt.Fprintf(out, "  audit_file: %s\n", cfg.Log.AuditFile)
	fmt.Fprintf(out, "  audit_db: %s\n", cfg.Log.AuditDB)
}
