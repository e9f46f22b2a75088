package forest

import "sync"

// Registry tracks procedure names during a build.
//
// A name is active while its file is being resolved and visited once the
// resolution has finished. Active names are treated like visited ones when
// deciding whether to expand an include, which is what stops include cycles.
type Registry struct {
	mu      sync.Mutex
	active  map[string]struct{}
	visited map[string]struct{}
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		active:  make(map[string]struct{}),
		visited: make(map[string]struct{}),
	}
}

// Begin claims name for resolution. It returns false if name is already
// active or visited, in which case the caller must not resolve it.
func (r *Registry) Begin(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.active[name]; ok {
		return false
	}
	if _, ok := r.visited[name]; ok {
		return false
	}
	r.active[name] = struct{}{}
	return true
}

// Finish moves name from active to visited. It returns false if name was
// already visited.
func (r *Registry) Finish(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, name)
	if _, ok := r.visited[name]; ok {
		return false
	}
	r.visited[name] = struct{}{}
	r.order = append(r.order, name)
	return true
}

// Abandon releases a claim made by Begin without marking name visited.
func (r *Registry) Abandon(name string) {
	r.mu.Lock()
	delete(r.active, name)
	r.mu.Unlock()
}

// Seen reports whether name is active or visited.
func (r *Registry) Seen(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.active[name]; ok {
		return true
	}
	_, ok := r.visited[name]
	return ok
}

// Visited reports whether name has been fully resolved.
func (r *Registry) Visited(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.visited[name]
	return ok
}

// Names returns visited names in the order they finished.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

// Len returns the number of visited names.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visited)
}
