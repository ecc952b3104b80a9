package dld

import (
	"fmt"
	"sort"
	"sync"
)

// Value is a positional argument or result.
type Value = any

// Func is the body of a registered function. args always has the declared
// arity when Arity is non-negative.
type Func func(args []Value, nargout int) ([]Value, error)

// Function describes a callable entry.
type Function struct {
	Name  string
	Usage string
	// Arity is the exact argument count; negative accepts any count.
	Arity int
	Fn    Func
}

type Registry struct {
	mu  sync.RWMutex
	fns map[string]Function
}

func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]Function)}
}

func (r *Registry) Register(f Function) error {
	if f.Name == "" || f.Fn == nil {
		return fmt.Errorf("dld: function needs a name and a body")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fns[f.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, f.Name)
	}
	r.fns[f.Name] = f
	return nil
}

func (r *Registry) Lookup(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fns[name]
	return f, ok
}

// Names returns the registered function names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call invokes name with args. No results are returned alongside an error.
func (r *Registry) Call(name string, nargout int, args ...Value) ([]Value, error) {
	f, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return f.Invoke(nargout, args...)
}

// Invoke checks the arity and runs the function body.
func (f Function) Invoke(nargout int, args ...Value) ([]Value, error) {
	if f.Arity >= 0 && len(args) != f.Arity {
		return nil, &UsageError{Name: f.Name, Usage: f.Usage, Got: len(args), Want: f.Arity}
	}
	out, err := f.Fn(args, nargout)
	if err != nil {
		return nil, err
	}
	return out, nil
}
