package carriers

import (
	"sync"

	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// Registry is an in-memory ports.CarrierRegistry, safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	adapters map[int]ports.CarrierAdapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[int]ports.CarrierAdapter)}
}

// Register replaces any adapter already registered for code.
func (r *Registry) Register(code int, adapter ports.CarrierAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[code] = adapter
}

func (r *Registry) Adapter(code int) (ports.CarrierAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[code]
	if !ok {
		return nil, errs.NewObjectNotFoundError("carrier adapter", code)
	}
	return a, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.adapters)
}
