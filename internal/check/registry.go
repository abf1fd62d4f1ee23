package check

// Registry is the set of test ids claimed so far in a run. It is shared by
// every file of the run and is not safe for concurrent use.
type Registry struct {
	ids map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]struct{})}
}

// Claim records id. It returns false, leaving the registry unchanged, if
// id was already claimed.
func (r *Registry) Claim(id string) bool {
	if _, ok := r.ids[id]; ok {
		return false
	}
	r.ids[id] = struct{}{}
	return true
}

// Len returns the number of claimed ids.
func (r *Registry) Len() int {
	return len(r.ids)
}
