// Package cache keeps recently viewed public profiles in memory.
package cache

import (
	"time"

	"go-jobboard/internal/models"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry struct {
	user    models.User
	expires time.Time
}

// ProfileCache is a size-bounded LRU of users with a per-entry TTL.
type ProfileCache struct {
	lru *lru.Cache[string, entry]
	ttl time.Duration
	now func() time.Time
}

func NewProfileCache(size int, ttl time.Duration) (*ProfileCache, error) {
	c, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}
	return &ProfileCache{lru: c, ttl: ttl, now: time.Now}, nil
}

func (c *ProfileCache) Get(id string) (models.User, bool) {
	e, ok := c.lru.Get(id)
	if !ok {
		return models.User{}, false
	}
	if c.ttl > 0 && c.now().After(e.expires) {
		c.lru.Remove(id)
		return models.User{}, false
	}
	return e.user, true
}

func (c *ProfileCache) Put(u models.User) {
	c.lru.Add(u.ID, entry{user: u, expires: c.now().Add(c.ttl)})
}

func (c *ProfileCache) Invalidate(id string) {
	c.lru.Remove(id)
}

func (c *ProfileCache) Len() int {
	return c.lru.Len()
}
