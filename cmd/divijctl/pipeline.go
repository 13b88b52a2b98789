package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/DivijChawla/DivijEncrypt/internal/cipher"
	"github.com/DivijChawla/DivijEncrypt/internal/rpc"
)

func stepFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:     "step",
		Aliases:  []string{"s"},
		Usage:    "pipeline step as `OP[:name=value;name=value]`, repeat in order",
		Required: true,
	}
}

func pipelineCommand() *cli.Command {
	return &cli.Command{
		Name:  "pipeline",
		Usage: "Chain operations",
		Subcommands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run steps in order",
				UsageText: "divijctl pipeline run [--reverse] --step mirror_encrypt --step modular_encrypt:key=7 [text]",
				Flags: []cli.Flag{
					stepFlag(),
					&cli.BoolFlag{Name: "reverse", Aliases: []string{"r"}, Usage: "run the inverse pipeline instead"},
				},
				Action: func(c *cli.Context) error {
					steps, err := parseSteps(c.StringSlice("step"))
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					input, err := readInput(c, 0)
					if err != nil {
						return err
					}
					reply, err := envFrom(c).runner().Execute(c.Context, &rpc.ExecuteRequest{
						Pipeline: steps,
						Reverse:  c.Bool("reverse"),
						Input:    string(input),
					})
					if err != nil {
						return exitError(err)
					}
					return writeOutput(c, []byte(reply.Output))
				},
			},
			{
				Name:  "reverse",
				Usage: "Print the inverse of a pipeline as YAML",
				Flags: []cli.Flag{stepFlag()},
				Action: func(c *cli.Context) error {
					steps, err := parseSteps(c.StringSlice("step"))
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					reversed, err := envFrom(c).svc.ReversePipeline(&cipher.Pipeline{Operations: steps, Reversible: true})
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					return printYAML(c, reversed)
				},
			},
		},
	}
}

func printYAML(c *cli.Context, v any) error {
	enc := yaml.NewEncoder(c.App.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
