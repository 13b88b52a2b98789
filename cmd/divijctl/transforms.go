package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"google.golang.org/grpc/status"

	"github.com/DivijChawla/DivijEncrypt/internal/cipher"
	"github.com/DivijChawla/DivijEncrypt/internal/rpc"
)

// runner executes requests either in process or against a remote server.
// Both paths go through the gRPC message types so they behave the same.
type runner interface {
	Execute(ctx context.Context, req *rpc.ExecuteRequest) (*rpc.ExecuteReply, error)
	List(ctx context.Context, req *rpc.ListRequest) (*rpc.ListReply, error)
}

type remoteRunner struct {
	client rpc.CipherClient
}

func (r remoteRunner) Execute(ctx context.Context, req *rpc.ExecuteRequest) (*rpc.ExecuteReply, error) {
	return r.client.Execute(ctx, req)
}

func (r remoteRunner) List(ctx context.Context, req *rpc.ListRequest) (*rpc.ListReply, error) {
	return r.client.List(ctx, req)
}

func (e *env) runner() runner {
	if e.remote != nil {
		return remoteRunner{client: e.remote}
	}
	return rpc.NewServer(e.svc)
}

// exitError turns a status error into a cli exit with the bare message.
func exitError(err error) error {
	if st, ok := status.FromError(err); ok {
		return cli.Exit(st.Message(), 1)
	}
	return cli.Exit(err.Error(), 1)
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List available operations",
		UsageText: "divijctl list [--type encrypt|decrypt] [--json]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Usage: "only show operations of this `TYPE`"},
			&cli.BoolFlag{Name: "json", Usage: "print JSON"},
		},
		Action: func(c *cli.Context) error {
			typ := c.String("type")
			if typ != "" && typ != string(cipher.OperationTypeEncrypt) && typ != string(cipher.OperationTypeDecrypt) {
				return cli.Exit(fmt.Sprintf("unknown operation type %q", typ), 2)
			}
			reply, err := envFrom(c).runner().List(c.Context, &rpc.ListRequest{Type: typ})
			if err != nil {
				return exitError(err)
			}
			if c.Bool("json") {
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(reply.Operations)
			}
			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPE\tPARAMS\tDESCRIPTION")
			for _, op := range reply.Operations {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", op.Name, op.Type, paramSummary(op.Parameters), op.Description)
			}
			return tw.Flush()
		},
	}
}

func paramSummary(specs []cipher.ParamSpec) string {
	if len(specs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(specs))
	for _, p := range specs {
		name := p.Name
		if !p.Required {
			name += "?"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ",")
}

func transformCommand(typ cipher.OperationType) *cli.Command {
	name := string(typ)
	return &cli.Command{
		Name:      name,
		Usage:     "Run a single " + name + " operation",
		UsageText: fmt.Sprintf("divijctl %s [--param name=value ...] <transform> [text]\n\nThe transform is a full operation name (modular_%s) or its short form (modular).\nText is read from stdin when omitted.", name, name),
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "param", Aliases: []string{"p"}, Usage: "operation parameter as `NAME=VALUE`"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("a transform name is required", 2)
			}
			op := operationName(c.Args().First(), typ)
			params, err := parseParams(c.StringSlice("param"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			input, err := readInput(c, 1)
			if err != nil {
				return err
			}
			reply, err := envFrom(c).runner().Execute(c.Context, &rpc.ExecuteRequest{
				Operation:  op,
				Parameters: params,
				Input:      string(input),
			})
			if err != nil {
				return exitError(err)
			}
			return writeOutput(c, []byte(reply.Output))
		},
	}
}

// operationName expands a short transform name for the given direction.
func operationName(arg string, typ cipher.OperationType) string {
	arg = strings.TrimSpace(arg)
	if strings.HasSuffix(arg, "_encrypt") || strings.HasSuffix(arg, "_decrypt") {
		return arg
	}
	return arg + "_" + string(typ)
}
