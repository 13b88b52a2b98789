package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/DivijChawla/DivijEncrypt/internal/cipher"
	"github.com/DivijChawla/DivijEncrypt/internal/config"
	"github.com/DivijChawla/DivijEncrypt/internal/logging"
	"github.com/DivijChawla/DivijEncrypt/internal/rpc"
	"github.com/DivijChawla/DivijEncrypt/internal/service"
)

// env carries what every subcommand needs once global flags are resolved.
type env struct {
	cfg    config.Config
	log    zerolog.Logger
	audit  *logging.AuditLogger
	svc    *service.Service
	remote rpc.CipherClient
	close  []func() error
}

type envKey struct{}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "divijctl",
		Usage:     productName + " text transforms, pipelines and recipes",
		Version:   version,
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,

		// shuffle keys and similar parameters carry commas
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "configuration file `PATH` (default ./divij.yml)",
				EnvVars: []string{"DIVIJ_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "remote",
				Usage: "run transforms on the server at `ADDR` over gRPC",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override log.level",
			},
		},
		Before: setup,
		After:  teardown,
		Commands: []*cli.Command{
			listCommand(),
			transformCommand(cipher.OperationTypeEncrypt),
			transformCommand(cipher.OperationTypeDecrypt),
			keygenCommand(),
			pipelineCommand(),
			recipeCommand(),
			auditCommand(),
			serveCommand(),
			configCommand(),
			versionCommand(),
		},
	}
}

func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("load config: %v", err), 1)
	}
	if level := c.String("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	e := &env{
		cfg: cfg,
		log: logging.New("divijctl", logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON, Writer: c.App.ErrWriter}),
	}

	e.audit = logging.Nop()
	if cfg.Log.AuditFile != "" || cfg.Log.AuditDB != "" {
		opts := []logging.Option{logging.WithoutStdout(), logging.WithLevel(cfg.Log.Level)}
		if cfg.Log.AuditFile != "" {
			opts = append(opts, logging.WithFile(cfg.Log.AuditFile))
		}
		if cfg.Log.AuditDB != "" {
			opts = append(opts, logging.WithSQLite(cfg.Log.AuditDB))
		}
		if e.audit, err = logging.NewAuditLogger("divijctl", opts...); err != nil {
			return cli.Exit(fmt.Sprintf("open audit log: %v", err), 1)
		}
		e.close = append(e.close, e.audit.Close)
	}

	recipes := cipher.NewRecipeManager(cfg.RecipesDir)
	if err := recipes.LoadRecipes(); err != nil {
		e.log.Warn().Err(err).Str("dir", cfg.RecipesDir).Msg("load recipes")
	}
	if e.svc, err = service.New(service.Config{Recipes: recipes, Audit: e.audit, SymbolSeed: cfg.SymbolSeed}); err != nil {
		return err
	}

	if addr := c.String("remote"); addr != "" {
		conn, err := rpc.Dial(addr)
		if err != nil {
			return cli.Exit(fmt.Sprintf("dial %s: %v", addr, err), 1)
		}
		e.close = append(e.close, conn.Close)
		e.remote = rpc.NewCipherClient(conn)
	}

	c.Context = context.WithValue(c.Context, envKey{}, e)
	return nil
}

func teardown(c *cli.Context) error {
	e, ok := c.Context.Value(envKey{}).(*env)
	if !ok {
		return nil
	}
	var firstErr error
	for i := len(e.close) - 1; i >= 0; i-- {
		if err := e.close[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func envFrom(c *cli.Context) *env {
	return c.Context.Value(envKey{}).(*env)
}

// readInput returns the positional argument at index, or stdin with a single
// trailing newline removed.
func readInput(c *cli.Context, index int) ([]byte, error) {
	if c.NArg() > index {
		return []byte(c.Args().Get(index)), nil
	}
	data, err := io.ReadAll(c.App.Reader)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	s := strings.TrimSuffix(string(data), "\n")
	return []byte(strings.TrimSuffix(s, "\r")), nil
}

// parseParams turns k=v pairs into an operation parameter map. Values stay
// strings; operations convert them.
func parseParams(pairs []string) (map[string]interface{}, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("parameter %q must look like name=value", pair)
		}
		params[k] = strings.TrimSpace(v)
	}
	return params, nil
}

// parseStep reads op[:k=v;k=v].
func parseStep(spec string) (cipher.OperationConfig, error) {
	name, rest, _ := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return cipher.OperationConfig{}, fmt.Errorf("step %q has no operation", spec)
	}
	var pairs []string
	if rest != "" {
		pairs = strings.Split(rest, ";")
	}
	params, err := parseParams(pairs)
	if err != nil {
		return cipher.OperationConfig{}, fmt.Errorf("step %s: %w", name, err)
	}
	return cipher.OperationConfig{Name: name, Parameters: params}, nil
}

func parseSteps(specs []string) ([]cipher.OperationConfig, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one --step is required")
	}
	steps := make([]cipher.OperationConfig, 0, len(specs))
	for _, spec := range specs {
		step, err := parseStep(spec)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func writeOutput(c *cli.Context, out []byte) error {
	_, err := fmt.Fprintln(c.App.Writer, string(out))
	return err
}

func stderrf(c *cli.Context, format string, args ...any) {
	fmt.Fprintf(c.App.ErrWriter, format, args...)
}
