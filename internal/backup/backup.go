// Package backup uploads JSON snapshots of the todo collection to S3.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/sarth-shah20/todo/internal/todo"
)

// Uploader is the part of *manager.Uploader used here.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Snapshot is the uploaded document.
type Snapshot struct {
	TakenAt time.Time   `json:"taken_at"`
	Count   int         `json:"count"`
	Todos   []todo.Todo `json:"todos"`
}

// Backup writes snapshots under Prefix in Bucket.
type Backup struct {
	Bucket   string
	Prefix   string
	uploader Uploader
	log      *zap.Logger
	now      func() time.Time
}

// New builds an S3 uploader from the default AWS credential chain.
func New(ctx context.Context, bucket, prefix string, log *zap.Logger) (*Backup, error) {
	if bucket == "" {
		return nil, fmt.Errorf("missing environment variable TODO_BACKUP_BUCKET")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return NewWithUploader(bucket, prefix, manager.NewUploader(s3.NewFromConfig(cfg)), log), nil
}

func NewWithUploader(bucket, prefix string, uploader Uploader, log *zap.Logger) *Backup {
	if log == nil {
		log = zap.NewNop()
	}
	return &Backup{
		Bucket:   bucket,
		Prefix:   prefix,
		uploader: uploader,
		log:      log,
		now:      time.Now,
	}
}

// ErrInvalidKey is returned for object names that would leave Prefix.
var ErrInvalidKey = errors.New("invalid backup key")

// Key returns the object key for name, defaulting to a timestamped name.
// name must be a single path element.
func (b *Backup) Key(name string, at time.Time) (string, error) {
	if name == "" {
		name = "todos-" + at.UTC().Format("20060102T150405Z") + ".json"
	}
	if name == "." || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w %q: must be a file name without path separators or \"..\"", ErrInvalidKey, name)
	}
	return path.Join(b.Prefix, name), nil
}

// Upload stores todos as a JSON snapshot and returns the object key.
func (b *Backup) Upload(ctx context.Context, todos []todo.Todo, name string) (string, error) {
	at := b.now()
	key, err := b.Key(name, at)
	if err != nil {
		return "", err
	}
	if todos == nil {
		todos = []todo.Todo{}
	}

	body, err := json.MarshalIndent(Snapshot{TakenAt: at.UTC(), Count: len(todos), Todos: todos}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = b.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload s3://%s/%s: %w", b.Bucket, key, err)
	}

	b.log.Debug("snapshot uploaded",
		zap.String("bucket", b.Bucket),
		zap.String("key", key),
		zap.Int("count", len(todos)),
	)
	return key, nil
}
