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

type JobRepo struct {
	coll *mongo.Collection
}

var _ storage.JobRepository = (*JobRepo)(nil)

func normalizeJob(j *models.Job) {
	if j.LikedBy == nil {
		j.LikedBy = []string{}
	}
	if j.ReportedBy == nil {
		j.ReportedBy = []string{}
	}
	if j.ReasonCounts == nil {
		j.ReasonCounts = map[string]int{}
	}
}

func (r *JobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&job); err != nil {
		if isNoDocuments(err) {
			return nil, storage.ErrNotFound
		}
		log.Printf("Error fetching job %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to get job %s: %w", id, err)
	}
	normalizeJob(&job)
	return &job, nil
}

func (r *JobRepo) List(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	q := bson.M{}
	if filter.HirerID != "" {
		q["hirer_id"] = filter.HirerID
	}
	if filter.Frozen != nil {
		q["frozen"] = *filter.Frozen
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.coll.Find(ctx, q, opts)
	if err != nil {
		log.Printf("Error listing jobs: %v\n", err)
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	jobs := []models.Job{}
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode jobs: %w", err)
	}
	for i := range jobs {
		normalizeJob(&jobs[i])
	}
	return jobs, nil
}

func (r *JobRepo) Create(ctx context.Context, job *models.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	normalizeJob(job)
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, job); err != nil {
		if err := mapWriteError(err); err == storage.ErrConflict {
			return err
		}
		log.Printf("Error creating job: %v\n", err)
		return fmt.Errorf("failed to create job: %w", err)
	}
	log.Printf("Job created successfully with ID: %s", job.ID)
	return nil
}

func (r *JobRepo) Update(ctx context.Context, id string, upd *models.JobUpdate) (*models.Job, error) {
	b := newUpdateBuilder().Set("updated_at", time.Now().UTC())
	if upd.Position != nil {
		b.Set("position", *upd.Position)
	}
	if upd.CompanyName != nil {
		b.Set("company_name", *upd.CompanyName)
	}
	if upd.Location != nil {
		b.Set("location", *upd.Location)
	}
	if upd.Salary != nil {
		b.Set("salary", *upd.Salary)
	}
	if upd.Description != nil {
		b.Set("description", *upd.Description)
	}
	if upd.JobImage != nil {
		b.Set("job_image", *upd.JobImage)
	}

	var job models.Job
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, b.Build(),
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&job)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storage.ErrNotFound
		}
		log.Printf("Error updating job %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to update job %s: %w", id, err)
	}
	normalizeJob(&job)
	return &job, nil
}

func (r *JobRepo) SaveEngagement(ctx context.Context, job *models.Job) error {
	normalizeJob(job)
	update := newUpdateBuilder().
		Set("liked_by", job.LikedBy).
		Set("likes_count", job.LikesCount).
		Set("reported_by", job.ReportedBy).
		Set("reports_count", job.ReportsCount).
		Set("reason_counts", job.ReasonCounts).
		Set("updated_at", time.Now().UTC()).
		Build()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": job.ID}, update)
	if err != nil {
		log.Printf("Error saving engagement of job %s: %v\n", job.ID, err)
		return fmt.Errorf("failed to save engagement of job %s: %w", job.ID, err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *JobRepo) SetFrozen(ctx context.Context, id string, frozen bool) (bool, error) {
	update := newUpdateBuilder().Set("frozen", frozen).Set("updated_at", time.Now().UTC()).Build()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id, "frozen": bson.M{"$ne": frozen}}, update)
	if err != nil {
		log.Printf("Error setting frozen=%t on job %s: %v\n", frozen, id, err)
		return false, fmt.Errorf("failed to set frozen on job %s: %w", id, err)
	}
	if res.ModifiedCount == 1 {
		return true, nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to check job %s: %w", id, err)
	}
	if n == 0 {
		return false, storage.ErrNotFound
	}
	return false, nil
}
