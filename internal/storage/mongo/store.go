// Package mongo implements the storage interfaces on MongoDB. Transactions need a replica set.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-jobboard/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection       = "users"
	jobsCollection        = "jobs"
	reportsCollection     = "reports"
	submissionsCollection = "submissions"
	likesCollection       = "likes"
)

// caseInsensitive backs the unique email index and the email lookups that use it.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// Store hands out repositories over one database. Inside RunInTx the context
// carries the session, so the same collections take part in the transaction.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	inTx   bool
}

var _ storage.Store = (*Store)(nil)

func NewStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{client: client, db: db}
}

func (s *Store) GetCollection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) Users() storage.UserRepository {
	return &UserRepo{coll: s.GetCollection(usersCollection)}
}

func (s *Store) Jobs() storage.JobRepository {
	return &JobRepo{coll: s.GetCollection(jobsCollection)}
}

func (s *Store) Reports() storage.ReportRepository {
	return &ReportRepo{coll: s.GetCollection(reportsCollection)}
}

func (s *Store) Submissions() storage.SubmissionRepository {
	return &SubmissionRepo{coll: s.GetCollection(submissionsCollection)}
}

func (s *Store) Likes() storage.LikeRepository {
	return &LikeRepo{coll: s.GetCollection(likesCollection)}
}

// RunInTx runs fn inside a session transaction. The driver retries fn on
// transient transaction errors such as write conflicts.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx storage.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	tx := &Store{client: s.client, db: s.db, inTx: true}
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, tx)
	})
	return err
}

// EnsureIndexes creates the unique indexes the repositories rely on for ErrConflict.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{
				Keys: bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetCollation(caseInsensitive).
					SetPartialFilterExpression(bson.M{"email": bson.M{"$gt": ""}}),
			},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		jobsCollection: {
			{Keys: bson.D{{Key: "hirer_id", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		reportsCollection: {
			{Keys: bson.D{{Key: "job_id", Value: 1}, {Key: "reporter_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		submissionsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "job_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "job_id", Value: 1}}},
		},
		likesCollection: {
			{Keys: bson.D{{Key: "job_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for name, idx := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	log.Println("MongoDB indexes are up to date")
	return nil
}

func mapWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrConflict
	}
	return err
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// updateBuilder assembles $set documents.
type updateBuilder struct {
	set bson.M
}

func newUpdateBuilder() *updateBuilder {
	return &updateBuilder{set: bson.M{}}
}

func (u *updateBuilder) Set(key string, value interface{}) *updateBuilder {
	u.set[key] = value
	return u
}

func (u *updateBuilder) Build() bson.M {
	return bson.M{"$set": u.set}
}
