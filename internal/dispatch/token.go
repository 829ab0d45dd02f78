package dispatch

import "sync"

// tokenHolder guards the bearer credential: read at send time, written only
// by token channel updates.
type tokenHolder struct {
	mu    sync.RWMutex
	token string
}

func newTokenHolder(token string) *tokenHolder {
	return &tokenHolder{token: token}
}

func (t *tokenHolder) get() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token
}

func (t *tokenHolder) set(token string) {
	t.mu.Lock()
	t.token = token
	t.mu.Unlock()
}
