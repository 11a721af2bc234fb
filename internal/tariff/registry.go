package tariff

import "strings"

// Registry resolves plan codes to plans. The schedule is fixed; there is no
// runtime plan management.
type Registry struct {
	plans map[Code]Plan
}

func NewRegistry() *Registry {
	r := &Registry{plans: make(map[Code]Plan)}
	for _, plan := range []Plan{Domestic(), Commercial()} {
		r.plans[plan.Code()] = plan
	}
	return r
}

func (r *Registry) Resolve(code Code) (Plan, error) {
	normalized := Code(strings.ToLower(strings.TrimSpace(string(code))))
	plan, ok := r.plans[normalized]
	if !ok {
		return Plan{}, ErrUnknownPlan
	}
	return plan, nil
}

// Codes lists the registered plan codes.
func (r *Registry) Codes() []Code {
	out := make([]Code, 0, len(r.plans))
	for code := range r.plans {
		out = append(out, code)
	}
	return out
}
