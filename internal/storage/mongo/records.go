package mongo

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-jobboard/internal/models"
	"go-jobboard/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReportRepo struct {
	coll *mongo.Collection
}

var _ storage.ReportRepository = (*ReportRepo)(nil)

func (r *ReportRepo) Create(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, report); err != nil {
		if err := mapWriteError(err); err == storage.ErrConflict {
			return err
		}
		log.Printf("Error creating report for job %s: %v\n", report.JobID, err)
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *ReportRepo) ExistsForReporter(ctx context.Context, jobID, reporterID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"job_id": jobID, "reporter_id": reporterID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check report: %w", err)
	}
	return n > 0, nil
}

func (r *ReportRepo) ListByJob(ctx context.Context, jobID string) ([]models.Report, error) {
	return r.ListByJobs(ctx, []string{jobID})
}

func (r *ReportRepo) ListByJobs(ctx context.Context, jobIDs []string) ([]models.Report, error) {
	reports := []models.Report{}
	if len(jobIDs) == 0 {
		return reports, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"job_id": bson.M{"$in": jobIDs}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		log.Printf("Error listing reports: %v\n", err)
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}
	return reports, nil
}

type SubmissionRepo struct {
	coll *mongo.Collection
}

var _ storage.SubmissionRepository = (*SubmissionRepo)(nil)

func (r *SubmissionRepo) findOne(ctx context.Context, filter bson.M) (*models.Submission, error) {
	var sub models.Submission
	if err := r.coll.FindOne(ctx, filter).Decode(&sub); err != nil {
		if isNoDocuments(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &sub, nil
}

func (r *SubmissionRepo) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *SubmissionRepo) FindByUserAndJob(ctx context.Context, userID, jobID string) (*models.Submission, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "job_id": jobID})
}

func (r *SubmissionRepo) Create(ctx context.Context, sub *models.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}
	if sub.UpdatedAt.IsZero() {
		sub.UpdatedAt = sub.SubmittedAt
	}
	if _, err := r.coll.InsertOne(ctx, sub); err != nil {
		if err := mapWriteError(err); err == storage.ErrConflict {
			return err
		}
		log.Printf("Error creating submission for user %s on job %s: %v\n", sub.UserID, sub.JobID, err)
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepo) findOneAndSet(ctx context.Context, filter bson.M, update bson.M) (*models.Submission, error) {
	var sub models.Submission
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&sub)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}
	return &sub, nil
}

func (r *SubmissionRepo) UpdatePDF(ctx context.Context, id, pdfURL string, at time.Time) (*models.Submission, error) {
	return r.findOneAndSet(ctx, bson.M{"_id": id},
		newUpdateBuilder().Set("pdf_url", pdfURL).Set("updated_at", at).Build())
}

func (r *SubmissionRepo) Decide(ctx context.Context, id string, status models.SubmissionStatus, at time.Time) (*models.Submission, error) {
	sub, err := r.findOneAndSet(ctx,
		bson.M{"_id": id, "status": models.SubmissionPending},
		newUpdateBuilder().Set("status", status).Set("decided_at", at).Set("updated_at", at).Build(),
	)
	if err != storage.ErrNotFound {
		return sub, err
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to check submission %s: %w", id, err)
	}
	if n > 0 {
		return nil, storage.ErrConflict
	}
	return nil, storage.ErrNotFound
}

func (r *SubmissionRepo) ListByUser(ctx context.Context, userID string) ([]models.Submission, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *SubmissionRepo) ListByJob(ctx context.Context, jobID string) ([]models.Submission, error) {
	return r.list(ctx, bson.M{"job_id": jobID})
}

func (r *SubmissionRepo) list(ctx context.Context, filter bson.M) ([]models.Submission, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}}))
	if err != nil {
		log.Printf("Error listing submissions: %v\n", err)
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	subs := []models.Submission{}
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}
	return subs, nil
}

type LikeRepo struct {
	coll *mongo.Collection
}

var _ storage.LikeRepository = (*LikeRepo)(nil)

func (r *LikeRepo) Add(ctx context.Context, like *models.Like) error {
	if like.ID == "" {
		like.ID = uuid.NewString()
	}
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"job_id": like.JobID, "user_id": like.UserID},
		bson.M{"$setOnInsert": like},
		options.Update().SetUpsert(true),
	)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		log.Printf("Error adding like of %s on job %s: %v\n", like.UserID, like.JobID, err)
		return fmt.Errorf("failed to add like: %w", err)
	}
	return nil
}

func (r *LikeRepo) Remove(ctx context.Context, jobID, userID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"job_id": jobID, "user_id": userID}); err != nil {
		log.Printf("Error removing like of %s on job %s: %v\n", userID, jobID, err)
		return fmt.Errorf("failed to remove like: %w", err)
	}
	return nil
}

func (r *LikeRepo) ListByJob(ctx context.Context, jobID string) ([]models.Like, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"job_id": jobID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}
	likes := []models.Like{}
	if err := cursor.All(ctx, &likes); err != nil {
		return nil, fmt.Errorf("failed to decode likes: %w", err)
	}
	return likes, nil
}
