package cipher

import (
	"context"
	"fmt"
)

// OperationType defines the direction of a transformation operation
type OperationType string

const (
	OperationTypeEncrypt OperationType = "encrypt"
	OperationTypeDecrypt OperationType = "decrypt"
)

// ParamSpec describes a parameter accepted by an operation
type ParamSpec struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required" yaml:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Operation is one direction of a transform pair
type Operation interface {
	// Name returns the unique identifier for this operation
	Name() string

	// Type reports whether the operation encrypts or decrypts
	Type() OperationType

	// Description returns a human-readable description
	Description() string

	// Parameters lists the params Execute understands
	Parameters() []ParamSpec

	// Execute applies the operation to UTF-8 text
	Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error)

	// Reverse returns the inverse operation
	Reverse() (Operation, bool)
}

// OperationConfig names an operation and the params for one pipeline step
type OperationConfig struct {
	Name       string                 `json:"name" yaml:"name"`
	Parameters map[string]interface{} `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Pipeline is a chain of operations applied in order
type Pipeline struct {
	Operations []OperationConfig `json:"operations" yaml:"operations"`
	Reversible bool              `json:"reversible" yaml:"reversible"`
}

// Execute runs the pipeline against the default registry
func (p *Pipeline) Execute(ctx context.Context, input []byte) ([]byte, error) {
	return p.ExecuteWith(ctx, defaultRegistry, input)
}

// ExecuteWith runs the pipeline, resolving operation names in reg
func (p *Pipeline) ExecuteWith(ctx context.Context, reg *Registry, input []byte) ([]byte, error) {
	result := input
	var err error

	for i, step := range p.Operations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		op, exists := reg.Get(step.Name)
		if !exists {
			return nil, fmt.Errorf("%w at step %d: %s", ErrUnknownOperation, i, step.Name)
		}

		result, err = op.Execute(ctx, result, step.Parameters)
		if err != nil {
			return nil, fmt.Errorf("operation %s failed at step %d: %w", step.Name, i, err)
		}
	}

	return result, nil
}

// Reverse builds the inverse pipeline from the default registry
func (p *Pipeline) Reverse() (*Pipeline, error) {
	return p.ReverseWith(defaultRegistry)
}

// ReverseWith builds the inverse pipeline: steps in reverse order, each
// replaced by its inverse, with the params carried over unchanged.
func (p *Pipeline) ReverseWith(reg *Registry) (*Pipeline, error) {
	if !p.Reversible {
		return nil, fmt.Errorf("pipeline is not reversible")
	}

	reversed := &Pipeline{
		Operations: make([]OperationConfig, len(p.Operations)),
		Reversible: true,
	}

	for i, step := range p.Operations {
		op, exists := reg.Get(step.Name)
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, step.Name)
		}

		inverse, ok := op.Reverse()
		if !ok {
			return nil, fmt.Errorf("operation %s is not reversible", step.Name)
		}

		reversed.Operations[len(p.Operations)-1-i] = OperationConfig{
			Name:       inverse.Name(),
			Parameters: step.Parameters,
		}
	}

	return reversed, nil
}

// Recipe is a named, reusable pipeline
type Recipe struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Pipeline    Pipeline `json:"pipeline" yaml:"pipeline"`
	CreatedAt   string   `json:"created_at" yaml:"created_at"`
	UpdatedAt   string   `json:"updated_at" yaml:"updated_at"`
}

// BaseOperation carries the descriptive fields shared by every operation
type BaseOperation struct {
	NameValue        string
	TypeValue        OperationType
	DescriptionValue string
	ParamsValue      []ParamSpec
	ReverseOp        Operation
}

func (b *BaseOperation) Name() string {
	return b.NameValue
}

func (b *BaseOperation) Type() OperationType {
	return b.TypeValue
}

func (b *BaseOperation) Description() string {
	return b.DescriptionValue
}

func (b *BaseOperation) Parameters() []ParamSpec {
	return b.ParamsValue
}

func (b *BaseOperation) Reverse() (Operation, bool) {
	if b.ReverseOp == nil {
		return nil, false
	}
	return b.ReverseOp, true
}

func (b *BaseOperation) setReverse(op Operation) {
	b.ReverseOp = op
}
