package forecast

import (
	"strings"

	domsvc "StockForecast/internal/domain/service"
)

// Registry maps strategy names to implementations, keeping registration order.
type Registry struct {
	order  []string
	byName map[string]domsvc.ForecastStrategy
}

func NewRegistry(strategies ...domsvc.ForecastStrategy) *Registry {
	r := &Registry{byName: make(map[string]domsvc.ForecastStrategy, len(strategies))}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// NewDefaultRegistry holds the three built-in strategies.
func NewDefaultRegistry() *Registry {
	return NewRegistry(NewAutoRegressive(), NewTrendSeasonal(), NewSmoothingTrend())
}

// Register adds s, replacing any strategy already registered under its name
// without changing that name's position.
func (r *Registry) Register(s domsvc.ForecastStrategy) {
	name := s.Name()
	if _, ok := r.byName[name]; !ok {
		r.order = append(r.order, name)
	}
	r.byName[name] = s
}

func (r *Registry) Get(name string) (domsvc.ForecastStrategy, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// Resolve returns the registered spelling of name, matching case-insensitively.
func (r *Registry) Resolve(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if _, ok := r.byName[name]; ok {
		return name, true
	}
	for _, n := range r.order {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}

func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
