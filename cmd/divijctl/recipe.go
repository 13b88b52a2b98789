package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/DivijChawla/DivijEncrypt/internal/cipher"
	"github.com/DivijChawla/DivijEncrypt/internal/rpc"
)

func recipeCommand() *cli.Command {
	return &cli.Command{
		Name:    "recipe",
		Aliases: []string{"recipes"},
		Usage:   "Manage saved pipelines",
		Subcommands: []*cli.Command{
			{
				Name:      "save",
				Usage:     "Save a pipeline under a name",
				UsageText: "divijctl recipe save --step OP[:params] ... [--description TEXT] [--tag TAG] NAME",
				Flags: []cli.Flag{
					stepFlag(),
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}},
					&cli.StringSliceFlag{Name: "tag", Aliases: []string{"t"}},
					&cli.BoolFlag{Name: "irreversible", Usage: "refuse to run the recipe in reverse"},
				},
				Action: func(c *cli.Context) error {
					name := strings.TrimSpace(c.Args().First())
					if name == "" {
						return cli.Exit("a recipe name is required", 2)
					}
					steps, err := parseSteps(c.StringSlice("step"))
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					recipe := &cipher.Recipe{
						Name:        name,
						Description: c.String("description"),
						Tags:        c.StringSlice("tag"),
						Pipeline:    cipher.Pipeline{Operations: steps, Reversible: !c.Bool("irreversible")},
					}
					if err := envFrom(c).svc.SaveRecipe(recipe); err != nil {
						return cli.Exit(err.Error(), 1)
					}
					stderrf(c, "saved recipe %s (%d steps)\n", name, len(steps))
					return nil
				},
			},
			{
				Name:      "list",
				Aliases:   []string{"ls"},
				Usage:     "List saved recipes",
				UsageText: "divijctl recipe list [QUERY]",
				Action: func(c *cli.Context) error {
					recipes, err := envFrom(c).svc.Recipes(c.Args().First())
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "NAME\tSTEPS\tTAGS\tDESCRIPTION")
					for _, r := range recipes {
						fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", r.Name, len(r.Pipeline.Operations), strings.Join(r.Tags, ","), r.Description)
					}
					return tw.Flush()
				},
			},
			{
				Name:  "show",
				Usage: "Print a recipe as YAML",
				Action: func(c *cli.Context) error {
					recipe, err := envFrom(c).svc.Recipe(c.Args().First())
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					return printYAML(c, recipe)
				},
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete a recipe",
				Action: func(c *cli.Context) error {
					if err := envFrom(c).svc.DeleteRecipe(c.Args().First()); err != nil {
						return cli.Exit(err.Error(), 1)
					}
					return nil
				},
			},
			{
				Name:      "run",
				Usage:     "Run a recipe",
				UsageText: "divijctl recipe run [--reverse] NAME [text]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "reverse", Aliases: []string{"r"}},
				},
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return cli.Exit("a recipe name is required", 2)
					}
					input, err := readInput(c, 1)
					if err != nil {
						return err
					}
					reply, err := envFrom(c).runner().Execute(c.Context, &rpc.ExecuteRequest{
						Recipe:  name,
						Reverse: c.Bool("reverse"),
						Input:   string(input),
					})
					if err != nil {
						return exitError(err)
					}
					return writeOutput(c, []byte(reply.Output))
				},
			},
		},
	}
}
