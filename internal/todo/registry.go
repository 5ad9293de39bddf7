package todo

import "sync"

// Registry hands out one Manager per owner so the cached task list and its
// optimistic updates survive across requests. When the same owner comes
// back on a different backend the manager is switched wholesale and its
// cache dropped.
type Registry struct {
	mu       sync.Mutex
	managers map[string]*registered
}

type registered struct {
	manager *Manager
	store   Store
}

func NewRegistry() *Registry {
	return &Registry{managers: make(map[string]*registered)}
}

func (r *Registry) For(owner string, store Store) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.managers[owner]
	if !ok {
		entry = &registered{manager: NewManager(store, owner), store: store}
		r.managers[owner] = entry
		return entry.manager
	}
	if entry.store != store {
		entry.manager.SwitchStore(store, owner)
		entry.store = store
	}
	return entry.manager
}
