package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"go-jobboard/internal/models"
	"go-jobboard/internal/pubsub"
	"go-jobboard/internal/storage"
)

// MapRepoError maps storage errors to service errors
func MapRepoError(err error, operation string) error {
	if IsServiceError(err) {
		return err
	}
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, operation)
	}
	if errors.Is(err, storage.ErrConflict) {
		return fmt.Errorf("%w: %s (%v)", ErrConflict, operation, err)
	}
	// Log other unexpected errors
	log.Printf("Unexpected repository error during %s: %v", operation, err)
	return fmt.Errorf("%w: %s: %w", ErrTransient, operation, err)
}

func requireSession(actor models.Session) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

func requireRole(actor models.Session, role models.Role, action string) error {
	if err := requireSession(actor); err != nil {
		return err
	}
	if actor.Role != role {
		log.Printf("Forbidden attempt by user %s (%s) to %s", actor.UserID, actor.Role, action)
		return fmt.Errorf("%w: only %s accounts can %s", ErrForbidden, role, action)
	}
	return nil
}

// validateCVURL accepts absolute http(s) URLs with a host.
func validateCVURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: CV link must be a full http(s) URL", ErrInvalidInput)
	}
	return nil
}

// Paginate returns the 1-based page of items and the total page count.
func Paginate[T any](items []T, page, size int) ([]T, int) {
	if size <= 0 {
		size = 1
	}
	if page < 1 {
		page = 1
	}
	totalPages := (len(items) + size - 1) / size
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}, totalPages
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], totalPages
}

// inflight rejects a second identical action while the first is still running.
type inflight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{keys: make(map[string]struct{})}
}

func (f *inflight) acquire(key string) (func(), bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.keys[key]; busy {
		return nil, false
	}
	f.keys[key] = struct{}{}
	return func() {
		f.mu.Lock()
		delete(f.keys, key)
		f.mu.Unlock()
	}, true
}

// publisher sends snapshots to live subscribers. Failures are logged; they never fail the write.
type publisher struct {
	broker pubsub.Broker
}

func (p publisher) user(ctx context.Context, u *models.User) {
	if p.broker == nil || u == nil {
		return
	}
	if err := p.broker.Publish(ctx, pubsub.TopicUsers, u); err != nil {
		log.Printf("Publisher: failed to publish snapshot of user %s: %v", u.ID, err)
	}
}

func (p publisher) job(ctx context.Context, typ models.JobEventType, job *models.Job) {
	if p.broker == nil || job == nil {
		return
	}
	ev := models.JobEvent{Type: typ, JobID: job.ID, HirerID: job.HirerID}
	if err := p.broker.Publish(ctx, pubsub.TopicJobs, ev); err != nil {
		log.Printf("Publisher: failed to publish %s event for job %s: %v", typ, job.ID, err)
	}
}

func trimmed(s string) string { return strings.TrimSpace(s) }

func ptrBool(b bool) *bool { return &b }

func ptrString(s string) *string { return &s }

func ptrStatusStep(s models.StatusStep) *models.StatusStep { return &s }
