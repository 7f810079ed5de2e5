package verifierrepo

import "sync"

// InMemoryRepo is a mutex-guarded map implementation of Repo. It is owned
// by whoever constructs it and injected into the exchange client, never
// held as package state.
type InMemoryRepo struct {
	mu        sync.Mutex
	verifiers map[string]string
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		verifiers: make(map[string]string),
	}
}

func (r *InMemoryRepo) Put(key, verifier string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.verifiers[key] = verifier
}

func (r *InMemoryRepo) Take(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	verifier, ok := r.verifiers[key]
	if ok {
		delete(r.verifiers, key)
	}
	return verifier, ok
}
