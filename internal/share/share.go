package share

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"starcraft-tracker/internal/config"
	"starcraft-tracker/internal/fileutil"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

type Result struct {
	Target   string
	Location string
	ETag     string
}

// Target hands a finished backup file to somewhere outside the data
// directory.
type Target interface {
	Share(ctx context.Context, path string) (*Result, error)
}

// New returns nil when sharing is disabled.
func New(cfg *config.Config, logger zerolog.Logger) (Target, error) {
	switch cfg.ShareTarget {
	case config.ShareDir:
		return NewDirTarget(cfg.ShareDir, logger), nil
	case config.ShareBucket:
		t, err := NewBucketTarget(context.Background(), cfg.Bucket, logger)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, nil
	}
}

type DirTarget struct {
	dir    string
	logger zerolog.Logger
}

func NewDirTarget(dir string, logger zerolog.Logger) *DirTarget {
	return &DirTarget{dir: dir, logger: logger}
}

func (t *DirTarget) Share(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dst := filepath.Join(t.dir, filepath.Base(path))
	if err := fileutil.CopyFileAtomic(path, dst); err != nil {
		return nil, fmt.Errorf("failed to copy backup to %s: %w", t.dir, err)
	}
	t.logger.Info().Str("path", dst).Msg("backup shared to directory")
	return &Result{Target: string(config.ShareDir), Location: dst}, nil
}

type BucketTarget struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

func NewBucketTarget(ctx context.Context, cfg config.BucketConfig, logger zerolog.Logger) (*BucketTarget, error) {
	if cfg.Endpoint == "" || cfg.Name == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("invalid bucket configuration: endpoint, name and credentials are required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	sdkCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &BucketTarget{client: client, bucket: cfg.Name, logger: logger}, nil
}

func (t *BucketTarget) Share(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup: %w", err)
	}
	defer f.Close()

	key := filepath.Base(path)
	out, err := t.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(t.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(key)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload backup (key: %s): %w", key, err)
	}

	etag := ""
	if out.ETag != nil {
		etag = strings.Trim(*out.ETag, "\"")
	}

	t.logger.Info().Str("bucket", t.bucket).Str("key", key).Msg("backup uploaded")
	return &Result{
		Target:   string(config.ShareBucket),
		Location: fmt.Sprintf("s3://%s/%s", t.bucket, key),
		ETag:     etag,
	}, nil
}

func contentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return "application/json"
	case ".xml":
		return "application/xml"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
