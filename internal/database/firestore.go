package database

import (
	"context"
	"fmt"
	"log"

	"go-jobboard/config"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// NewFirestoreClient opens a Firestore client. Without a credentials file the
// application default credentials (or FIRESTORE_EMULATOR_HOST) are used.
func NewFirestoreClient(ctx context.Context, cfg config.FirestoreConfig) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	log.Printf("Firestore client ready for project %s", cfg.ProjectID)
	return client, nil
}
