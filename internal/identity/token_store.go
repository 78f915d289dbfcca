package identity

import (
	"context"
	"sync"
	"time"
)

// TokenStore keeps server-side session and verification state.
type TokenStore interface {
	// TrackSession records an active session so it can be revoked with the rest of the user's sessions.
	TrackSession(ctx context.Context, userID, sessionID string, ttl time.Duration) error
	Revoke(ctx context.Context, userID, sessionID string, ttl time.Duration) error
	// RevokeAll revokes every tracked session of userID and returns their ids.
	RevokeAll(ctx context.Context, userID string, ttl time.Duration) ([]string, error)
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
	SaveVerification(ctx context.Context, token, userID string, ttl time.Duration) error
	// ConsumeVerification returns the user id of token and deletes it. ok is false for unknown or expired tokens.
	ConsumeVerification(ctx context.Context, token string) (userID string, ok bool, err error)
}

type expiring struct {
	value   string
	expires time.Time
}

// MemoryTokenStore is a TokenStore for a single process.
type MemoryTokenStore struct {
	mu            sync.Mutex
	now           func() time.Time
	sessions      map[string]map[string]time.Time
	revoked       map[string]time.Time
	verifications map[string]expiring
}

var _ TokenStore = (*MemoryTokenStore)(nil)

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		now:           time.Now,
		sessions:      make(map[string]map[string]time.Time),
		revoked:       make(map[string]time.Time),
		verifications: make(map[string]expiring),
	}
}

func (m *MemoryTokenStore) TrackSession(ctx context.Context, userID, sessionID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[userID] == nil {
		m.sessions[userID] = make(map[string]time.Time)
	}
	m.sessions[userID][sessionID] = m.now().Add(ttl)
	return nil
}

func (m *MemoryTokenStore) Revoke(ctx context.Context, userID, sessionID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[sessionID] = m.now().Add(ttl)
	delete(m.sessions[userID], sessionID)
	return nil
}

func (m *MemoryTokenStore) RevokeAll(ctx context.Context, userID string, ttl time.Duration) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	ids := []string{}
	for sid, exp := range m.sessions[userID] {
		if exp.After(now) {
			m.revoked[sid] = now.Add(ttl)
			ids = append(ids, sid)
		}
	}
	delete(m.sessions, userID)
	return ids, nil
}

func (m *MemoryTokenStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if !exp.After(m.now()) {
		delete(m.revoked, sessionID)
		return false, nil
	}
	return true, nil
}

func (m *MemoryTokenStore) SaveVerification(ctx context.Context, token, userID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifications[token] = expiring{value: userID, expires: m.now().Add(ttl)}
	return nil
}

func (m *MemoryTokenStore) ConsumeVerification(ctx context.Context, token string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.verifications[token]
	if !ok {
		return "", false, nil
	}
	delete(m.verifications, token)
	if !v.expires.After(m.now()) {
		return "", false, nil
	}
	return v.value, true, nil
}
