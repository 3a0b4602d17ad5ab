package utils

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raushankrgupta/fitmate/config"
	"github.com/raushankrgupta/fitmate/fitting"
	"github.com/raushankrgupta/fitmate/logger"
	"github.com/raushankrgupta/fitmate/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// Services holds the collaborators shared by the server and the admin CLI.
type Services struct {
	Store     store.Store
	Artifacts fitting.ArtifactStore
	// S3 is nil unless AWS_BUCKET_NAME is set.
	S3 *s3.Client

	mongo *mongo.Client
}

// OpenServices connects the storage backend and the model artifact store
// selected by cfg.
func OpenServices(ctx context.Context, cfg *config.Config, log logger.Logger) (*Services, error) {
	svc := &Services{}

	if cfg.AWSBucketName != "" {
		client, err := InitS3(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		svc.S3 = client
		log.Infof(ctx, "S3 client initialized for bucket %s", cfg.AWSBucketName)
	}

	svc.Artifacts = NewArtifactStore(cfg, svc.S3)

	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		log.Warnf(ctx, "using in-memory store, data is lost on exit")
		svc.Store = store.NewMemoryStore()
	default:
		client, err := ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		ms := store.NewMongoStore(client, cfg.DBName)
		if err := ms.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		svc.mongo = client
		svc.Store = ms
		log.Infof(ctx, "Connected to MongoDB database %s", cfg.DBName)
	}
	return svc, nil
}

// NewArtifactStore returns the model artifact store selected by
// cfg.ModelStore. client must be non-nil for the S3 store.
func NewArtifactStore(cfg *config.Config, client *s3.Client) fitting.ArtifactStore {
	if cfg.ModelStore == config.ModelStoreS3 {
		return fitting.NewS3Store(client, cfg.AWSBucketName, cfg.ModelPrefix)
	}
	return fitting.NewFileStore(cfg.ModelDir)
}

// Close releases the database connection, if any.
func (s *Services) Close(ctx context.Context) error {
	if s.mongo == nil {
		return nil
	}
	return s.mongo.Disconnect(ctx)
}
