package services

import (
	"context"
	"log"
	"sync"

	"go-jobboard/internal/cache"
	"go-jobboard/internal/identity"
	"go-jobboard/internal/models"
	"go-jobboard/internal/pubsub"
)

// BanWatch reduces a stream of snapshots of one user to ban transitions.
// The zero value starts in the "not banned" state.
type BanWatch struct {
	banned bool
}

// Observe feeds the next snapshot and reports whether it moved the user from not banned to banned.
func (w *BanWatch) Observe(u models.User) bool {
	fired := u.Banned && !w.banned
	w.banned = u.Banned
	return fired
}

// Reset returns the watch to "not banned" so the next banned snapshot fires again.
func (w *BanWatch) Reset() {
	w.banned = false
}

// WatchBans drains snapshots of a single user and calls onBan once per transition into banned.
// It returns when ctx ends or snapshots is closed.
func WatchBans(ctx context.Context, snapshots <-chan models.User, onBan func(models.User)) {
	var w BanWatch
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-snapshots:
			if !ok {
				return
			}
			if w.Observe(u) {
				onBan(u)
			}
		}
	}
}

// BanEnforcer signs banned users out of every session as soon as their snapshot is published.
type BanEnforcer struct {
	broker   pubsub.Broker
	identity identity.Gateway
	profiles *cache.ProfileCache

	mu      sync.Mutex
	watches map[string]*BanWatch
}

// NewBanEnforcer wires an enforcer. profiles may be nil.
func NewBanEnforcer(broker pubsub.Broker, gateway identity.Gateway, profiles *cache.ProfileCache) *BanEnforcer {
	return &BanEnforcer{
		broker:   broker,
		identity: gateway,
		profiles: profiles,
		watches:  make(map[string]*BanWatch),
	}
}

// Handle applies one user snapshot and reports whether it triggered a forced sign-out.
func (e *BanEnforcer) Handle(ctx context.Context, u models.User) bool {
	if e.profiles != nil {
		e.profiles.Invalidate(u.ID)
	}

	e.mu.Lock()
	w, ok := e.watches[u.ID]
	if !ok {
		w = &BanWatch{}
		e.watches[u.ID] = w
	}
	fired := w.Observe(u)
	e.mu.Unlock()

	if !fired {
		return false
	}
	if err := e.identity.SignOutAll(ctx, u.ID, models.SessionBanned); err != nil {
		log.Printf("BanEnforcer: failed to sign out banned user %s, will retry on next snapshot: %v", u.ID, err)
		e.mu.Lock()
		w.Reset()
		e.mu.Unlock()
		return false
	}
	log.Printf("BanEnforcer: signed out banned user %s", u.ID)
	return true
}

// Run subscribes to user snapshots until ctx is cancelled. The subscription is closed on every exit path.
func (e *BanEnforcer) Run(ctx context.Context) error {
	sub, err := e.broker.Subscribe(ctx, pubsub.TopicUsers)
	if err != nil {
		return err
	}
	defer sub.Close()

	log.Println("BanEnforcer: watching user snapshots")
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-sub.C:
			if !ok {
				return nil
			}
			var u models.User
			if err := msg.Decode(&u); err != nil {
				log.Printf("BanEnforcer: dropping undecodable snapshot: %v", err)
				continue
			}
			e.Handle(ctx, u)
		}
	}
}
