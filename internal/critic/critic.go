// Package critic defines the evaluator contract every critic satisfies and the
// concrete critics shipped with the service. Critics are independent judgment
// units: given a case they return a verdict, a confidence, and a justification.
// How a critic reaches its verdict is its own business; the pipeline only
// assumes this contract and that calls are independently retryable.
package critic

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"arbiter/internal/domain"
)

// Evaluator is the contract every critic implements.
type Evaluator interface {
	Name() string
	Evaluate(ctx context.Context, c domain.Case) (domain.CriticOutput, error)
}

// Registry holds the evaluator set for a deployment. It is built explicitly at
// startup and injected where needed; there is no process-wide registry.
type Registry struct {
	mu         sync.RWMutex
	evaluators map[string]Evaluator
}

// NewRegistry creates a registry from the given evaluators. Duplicate names
// are a wiring bug and rejected.
func NewRegistry(evaluators ...Evaluator) (*Registry, error) {
	r := &Registry{evaluators: make(map[string]Evaluator, len(evaluators))}
	for _, ev := range evaluators {
		if err := r.Register(ev); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an evaluator to the registry.
func (r *Registry) Register(ev Evaluator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := ev.Name()
	if name == "" {
		return fmt.Errorf("evaluator with empty name")
	}
	if _, exists := r.evaluators[name]; exists {
		return fmt.Errorf("evaluator %q already registered", name)
	}
	r.evaluators[name] = ev
	return nil
}

// All returns the registered evaluators in name order. Order only matters for
// reproducible logs; aggregation treats the output set as unordered.
func (r *Registry) All() []Evaluator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.evaluators))
	for name := range r.evaluators {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Evaluator, 0, len(names))
	for _, name := range names {
		out = append(out, r.evaluators[name])
	}
	return out
}

// Len returns the number of registered evaluators.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.evaluators)
}
