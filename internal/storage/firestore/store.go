// Package firestore implements the storage interfaces on Cloud Firestore.
//
// Firestore transactions reject reads that follow a write, so repositories
// running inside RunInTx queue their writes and the store applies them after
// fn returns, just before commit. Every mutating repository call outside a
// transaction opens its own.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"go-jobboard/internal/storage"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection       = "users"
	emailsCollection      = "userEmails"
	jobsCollection        = "jobs"
	reportsCollection     = "reports"
	submissionsCollection = "submissions"
	likesCollection       = "likes"
)

type Store struct {
	client  *firestore.Client
	tx      *firestore.Transaction
	pending []func(tx *firestore.Transaction) error
}

var _ storage.Store = (*Store)(nil)

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Users() storage.UserRepository             { return &UserRepo{s: s} }
func (s *Store) Jobs() storage.JobRepository               { return &JobRepo{s: s} }
func (s *Store) Reports() storage.ReportRepository         { return &ReportRepo{s: s} }
func (s *Store) Submissions() storage.SubmissionRepository { return &SubmissionRepo{s: s} }
func (s *Store) Likes() storage.LikeRepository             { return &LikeRepo{s: s} }

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx storage.Store) error) error {
	return s.atomically(ctx, func(ctx context.Context, tx *Store) error {
		return fn(ctx, tx)
	})
}

// atomically runs fn with a transactional Store, joining the current transaction if there is one.
func (s *Store) atomically(ctx context.Context, fn func(ctx context.Context, tx *Store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}
	return s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		txs := &Store{client: s.client, tx: t}
		if err := fn(ctx, txs); err != nil {
			return err
		}
		for _, write := range txs.pending {
			if err := write(t); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) queue(write func(tx *firestore.Transaction) error) {
	s.pending = append(s.pending, write)
}

func (s *Store) collection(name string) *firestore.CollectionRef {
	return s.client.Collection(name)
}

func (s *Store) get(ctx context.Context, ref *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
	var (
		snap *firestore.DocumentSnapshot
		err  error
	)
	if s.tx != nil {
		snap, err = s.tx.Get(ref)
	} else {
		snap, err = ref.Get(ctx)
	}
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", ref.Path, err)
	}
	return snap, nil
}

func (s *Store) documents(ctx context.Context, q firestore.Query) ([]*firestore.DocumentSnapshot, error) {
	var it *firestore.DocumentIterator
	if s.tx != nil {
		it = s.tx.Documents(q)
	} else {
		it = q.Documents(ctx)
	}
	snaps, err := it.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	return snaps, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
