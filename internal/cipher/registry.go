package cipher

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps operation names to operations. It is safe for concurrent use.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]Operation
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Operation)}
}

// defaultRegistry holds every built-in transform, filled by init functions.
var defaultRegistry = NewRegistry()

// Default returns the registry holding the built-in transforms
func Default() *Registry {
	return defaultRegistry
}

// Register adds an operation to the registry
func (r *Registry) Register(op Operation) error {
	if op == nil {
		return fmt.Errorf("cannot register nil operation")
	}

	name := op.Name()
	if name == "" {
		return fmt.Errorf("operation name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[name]; exists {
		return fmt.Errorf("operation %s is already registered", name)
	}

	r.ops[name] = op
	return nil
}

// Get retrieves an operation by name
func (r *Registry) Get(name string) (Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, exists := r.ops[name]
	return op, exists
}

// List returns all operations sorted by name
func (r *Registry) List() []Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ops := make([]Operation, 0, len(r.ops))
	for _, op := range r.ops {
		ops = append(ops, op)
	}
	sortByName(ops)
	return ops
}

// ListByType returns the operations of one direction sorted by name
func (r *Registry) ListByType(opType OperationType) []Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ops := make([]Operation, 0)
	for _, op := range r.ops {
		if op.Type() == opType {
			ops = append(ops, op)
		}
	}
	sortByName(ops)
	return ops
}

// Unregister removes an operation
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.ops, name)
}

func sortByName(ops []Operation) {
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Name() < ops[j].Name()
	})
}

// RegisterOperation adds an operation to the default registry
func RegisterOperation(op Operation) error {
	return defaultRegistry.Register(op)
}

// GetOperation looks an operation up in the default registry
func GetOperation(name string) (Operation, bool) {
	return defaultRegistry.Get(name)
}

// ListOperations returns every built-in operation
func ListOperations() []Operation {
	return defaultRegistry.List()
}

// ListOperationsByType returns the built-in operations of one direction
func ListOperationsByType(opType OperationType) []Operation {
	return defaultRegistry.ListByType(opType)
}

type pairedOperation interface {
	Operation
	setReverse(Operation)
}

// registerPair links an encrypt/decrypt pair as each other's inverse and
// adds both to the default registry. Built-in names are fixed, so a clash
// is a programming error.
func registerPair(encrypt, decrypt pairedOperation) {
	encrypt.setReverse(decrypt)
	decrypt.setReverse(encrypt)

	for _, op := range []Operation{encrypt, decrypt} {
		if err := RegisterOperation(op); err != nil {
			panic(err)
		}
	}
}
