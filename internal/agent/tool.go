package agent

import (
	"context"
	"strings"
	"sync"
)

// Tool is a named callable the model may invoke mid-conversation. Execute
// returns a JSON-serializable value that is injected back into the model's
// context.
type Tool interface {
	Name() string
	Execute(ctx context.Context, args map[string]interface{}) (interface{}, error)
}

type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: map[string]Tool{}}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

func (r *Registry) Register(t Tool) {
	if t == nil {
		return
	}
	key := strings.TrimSpace(t.Name())
	if key == "" {
		return
	}
	r.mu.Lock()
	r.tools[key] = t
	r.mu.Unlock()
}

func (r *Registry) Get(name string) Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[strings.TrimSpace(name)]
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}
