// Package service runs cipher operations, pipelines and recipes on behalf of
// the HTTP, gRPC and command line surfaces. Every execution is measured and
// written to the audit trail; plaintext never leaves the call.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DivijChawla/DivijEncrypt/internal/cipher"
	"github.com/DivijChawla/DivijEncrypt/internal/logging"
	"github.com/DivijChawla/DivijEncrypt/internal/observability/metrics"
)

// Config wires a Service.
type Config struct {
	// Registry supplies the operations. Defaults to cipher.Default().
	Registry *cipher.Registry
	// Recipes is optional; recipe calls fail without it.
	Recipes *cipher.RecipeManager
	// Audit defaults to a logger that discards events.
	Audit *logging.AuditLogger
	// SymbolSeed, when non-zero, is passed as the seed of every operation
	// that accepts one and was not given one explicitly.
	SymbolSeed int64
}

// ErrNoRecipes is returned by recipe calls on a Service without a store.
var ErrNoRecipes = errors.New("recipe store not configured")

type Service struct {
	ops     *cipher.Registry
	recipes *cipher.RecipeManager
	audit   *logging.AuditLogger
	seed    int64
}

func New(cfg Config) (*Service, error) {
	source := cfg.Registry
	if source == nil {
		source = cipher.Default()
	}
	audit := cfg.Audit
	if audit == nil {
		audit = logging.Nop()
	}
	s := &Service{
		ops:     cipher.NewRegistry(),
		recipes: cfg.Recipes,
		audit:   audit,
		seed:    cfg.SymbolSeed,
	}
	for _, op := range source.List() {
		if err := s.ops.Register(&instrumented{Operation: op, svc: s}); err != nil {
			return nil, err
		}
	}
	if s.recipes != nil {
		metrics.SetRecipeCount(len(s.recipes.ListRecipes()))
	}
	return s, nil
}

// Operations lists every operation sorted by name.
func (s *Service) Operations() []cipher.Operation {
	return s.ops.List()
}

func (s *Service) Operation(name string) (cipher.Operation, bool) {
	return s.ops.Get(name)
}

// Execute runs a single named operation.
func (s *Service) Execute(ctx context.Context, name string, input []byte, params map[string]interface{}) ([]byte, error) {
	op, ok := s.ops.Get(name)
	if !ok {
		err := fmt.Errorf("%w: %s", cipher.ErrUnknownOperation, name)
		metrics.ObserveOperation(metrics.UnknownOperation, metrics.OutcomeUnknown, 0)
		s.emit(logging.AuditEvent{
			EventType: logging.EventOperationRejected,
			Operation: name,
			Decision:  logging.DecisionDeny,
			Reason:    err.Error(),
		})
		return nil, err
	}

	out, err := op.Execute(ctx, input, params)
	if err != nil {
		s.emit(logging.AuditEvent{
			EventType: logging.EventOperationRejected,
			Operation: name,
			Decision:  logging.DecisionDeny,
			Metadata:  map[string]any{"input_bytes": len(input), "params": params, "outcome": Outcome(err)},
			Reason:    err.Error(),
		})
		return nil, err
	}
	s.emit(logging.AuditEvent{
		EventType: logging.EventOperationExecuted,
		Operation: name,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"input_bytes": len(input), "output_bytes": len(out), "params": params},
	})
	return out, nil
}

// RunPipeline executes p step by step against the service registry.
func (s *Service) RunPipeline(ctx context.Context, p *cipher.Pipeline, input []byte) ([]byte, error) {
	if p == nil || len(p.Operations) == 0 {
		return nil, fmt.Errorf("%w: pipeline has no operations", cipher.ErrInvalidParameter)
	}
	metrics.ObservePipeline(len(p.Operations))

	out, err := p.ExecuteWith(ctx, s.ops, input)
	meta := map[string]any{"steps": stepNames(p), "input_bytes": len(input)}
	if err != nil {
		meta["outcome"] = Outcome(err)
		s.emit(logging.AuditEvent{
			EventType: logging.EventPipelineExecuted,
			Decision:  logging.DecisionDeny,
			Metadata:  meta,
			Reason:    err.Error(),
		})
		return nil, err
	}
	meta["output_bytes"] = len(out)
	s.emit(logging.AuditEvent{
		EventType: logging.EventPipelineExecuted,
		Decision:  logging.DecisionAllow,
		Metadata:  meta,
	})
	return out, nil
}

// ReversePipeline returns the inverse of p.
func (s *Service) ReversePipeline(p *cipher.Pipeline) (*cipher.Pipeline, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil pipeline", cipher.ErrInvalidParameter)
	}
	return p.ReverseWith(s.ops)
}

func (s *Service) SaveRecipe(recipe *cipher.Recipe) error {
	if s.recipes == nil {
		return ErrNoRecipes
	}
	if err := s.recipes.SaveRecipe(recipe); err != nil {
		return err
	}
	metrics.SetRecipeCount(len(s.recipes.ListRecipes()))
	s.emit(logging.AuditEvent{
		EventType: logging.EventRecipeSaved,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"recipe": recipe.Name, "steps": stepNames(&recipe.Pipeline)},
	})
	return nil
}

func (s *Service) Recipe(name string) (*cipher.Recipe, error) {
	if s.recipes == nil {
		return nil, ErrNoRecipes
	}
	recipe, ok := s.recipes.GetRecipe(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", cipher.ErrRecipeNotFound, name)
	}
	return recipe, nil
}

// Recipes lists stored recipes, filtered by query when it is not blank.
func (s *Service) Recipes(query string) ([]*cipher.Recipe, error) {
	if s.recipes == nil {
		return nil, ErrNoRecipes
	}
	if strings.TrimSpace(query) == "" {
		return s.recipes.ListRecipes(), nil
	}
	return s.recipes.SearchRecipes(query), nil
}

func (s *Service) DeleteRecipe(name string) error {
	if s.recipes == nil {
		return ErrNoRecipes
	}
	if err := s.recipes.DeleteRecipe(name); err != nil {
		return err
	}
	metrics.SetRecipeCount(len(s.recipes.ListRecipes()))
	s.emit(logging.AuditEvent{
		EventType: logging.EventRecipeDeleted,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"recipe": name},
	})
	return nil
}

// RunRecipe executes a stored recipe, or its inverse when reverse is set.
func (s *Service) RunRecipe(ctx context.Context, name string, input []byte, reverse bool) ([]byte, error) {
	recipe, err := s.Recipe(name)
	if err != nil {
		return nil, err
	}
	pipeline := &recipe.Pipeline
	if reverse {
		if pipeline, err = s.ReversePipeline(pipeline); err != nil {
			return nil, fmt.Errorf("recipe %s: %w", name, err)
		}
	}
	return s.RunPipeline(ctx, pipeline, input)
}

// Outcome classifies err for metrics and audit metadata.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, cipher.ErrInvalidParameter):
		return metrics.OutcomeInvalidParameter
	case errors.Is(err, cipher.ErrDomainViolation):
		return metrics.OutcomeDomainViolation
	case errors.Is(err, cipher.ErrUnknownOperation):
		return metrics.OutcomeUnknown
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeError
	}
}

func (s *Service) emit(ev logging.AuditEvent) {
	_ = s.audit.Emit(ev)
}

func stepNames(p *cipher.Pipeline) []string {
	names := make([]string, len(p.Operations))
	for i, step := range p.Operations {
		names[i] = step.Name
	}
	return names
}

// instrumented measures every execution and fills in the configured seed.
type instrumented struct {
	cipher.Operation
	svc *Service
}

func (o *instrumented) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	params = o.svc.withDefaults(o.Operation, params)
	start := time.Now()
	out, err := o.Operation.Execute(ctx, input, params)
	metrics.ObserveOperation(o.Name(), Outcome(err), time.Since(start))
	if err == nil {
		metrics.RecordOperationBytes(o.Name(), len(input), len(out))
	}
	return out, err
}

func (o *instrumented) Reverse() (cipher.Operation, bool) {
	inverse, ok := o.Operation.Reverse()
	if !ok {
		return nil, false
	}
	if wrapped, found := o.svc.ops.Get(inverse.Name()); found {
		return wrapped, true
	}
	return inverse, true
}

func (s *Service) withDefaults(op cipher.Operation, params map[string]interface{}) map[string]interface{} {
	if s.seed == 0 {
		return params
	}
	if _, set := params["seed"]; set {
		return params
	}
	for _, spec := range op.Parameters() {
		if spec.Name != "seed" {
			continue
		}
		out := make(map[string]interface{}, len(params)+1)
		for k, v := range params {
			out[k] = v
		}
		out["seed"] = s.seed
		return out
	}
	return params
}
