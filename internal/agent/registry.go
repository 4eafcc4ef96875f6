package agent

import "strings"

// Registry maps agent names to shared Agent instances. Immutable after
// construction, so it is safe for concurrent request handlers.
type Registry struct {
	byName map[string]Agent
	order  []string
}

// normName folds case and hyphens so "To-Do" resolves from "todo".
func normName(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "")
}

// NewRegistry indexes agents by display name. Lookup is case-insensitive and
// also accepts the first word of a name ("weather" finds "Weather", "writing"
// finds "Writing Feedback"), matching the CLI's short names.
func NewRegistry(agents ...Agent) *Registry {
	r := &Registry{byName: make(map[string]Agent, len(agents))}
	for _, a := range agents {
		key := normName(a.Name())
		if _, exists := r.byName[key]; exists {
			continue
		}
		r.byName[key] = a
		r.order = append(r.order, a.Name())
	}
	return r
}

// Get resolves an agent by name.
func (r *Registry) Get(name string) (Agent, bool) {
	key := normName(name)
	if a, ok := r.byName[key]; ok {
		return a, true
	}
	// Short-name match on the first word of the display name.
	for _, full := range r.order {
		first, _, _ := strings.Cut(full, " ")
		if normName(first) == key {
			return r.byName[normName(full)], true
		}
	}
	return nil, false
}

// Names lists registered agents in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
