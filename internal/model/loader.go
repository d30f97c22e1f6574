package model

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"fraud-inference/internal/features"
)

// FetchFunc copies a remote object into the local file dst.
type FetchFunc func(ctx context.Context, bucket, key, dst string) error

// Loader reads a model artifact and checks it against the feature schema.
type Loader struct {
	Schema features.Schema

	// CacheDir receives artifacts downloaded from s3:// locations.
	CacheDir string
	// Region is used when building the default S3 client.
	Region string
	// Fetch overrides the S3 download, mostly for tests.
	Fetch FetchFunc
}

// Load builds a Handle from a local path or an s3://bucket/key location,
// verifying the artifact's feature layout against TrainingSchema.
func Load(ctx context.Context, path string) (*Handle, error) {
	l := Loader{Schema: features.TrainingSchema}
	return l.Load(ctx, path)
}

// Load builds a Handle from path. Every failure is a *LoadError.
func (l *Loader) Load(ctx context.Context, path string) (*Handle, error) {
	local := path
	if strings.HasPrefix(path, "s3://") {
		var err error
		local, err = l.download(ctx, path)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
	}

	data, err := os.ReadFile(local)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	doc, err := decodeDocument(local, data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	clf, names, info, err := doc.build()
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	schema := l.Schema
	if schema == nil {
		schema = features.TrainingSchema
	}
	if names != nil {
		if err := schema.Verify(names); err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
	}
	if clf.numFeatures() != schema.Width() {
		return nil, &LoadError{Path: path, Err: &features.DriftError{
			Position: -1,
			Detail:   fmt.Sprintf("model takes %d features, schema has %d", clf.numFeatures(), schema.Width()),
		}}
	}

	info.Source = path
	return newHandle(clf, info), nil
}

func (l *Loader) download(ctx context.Context, location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parse artifact location: %w", err)
	}
	bucket, key := u.Host, strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", fmt.Errorf("artifact location %q needs both bucket and key", location)
	}

	dir := l.CacheDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create model cache dir: %w", err)
	}
	dst := filepath.Join(dir, filepath.Base(key))

	fetch := l.Fetch
	if fetch == nil {
		fetch = l.s3Fetch
	}
	if err := fetch(ctx, bucket, key, dst); err != nil {
		return "", fmt.Errorf("download s3://%s/%s: %w", bucket, key, err)
	}
	return dst, nil
}

// s3Fetch downloads through the S3 transfer manager into a temp file and
// renames it into place, so a partial download is never loaded.
func (l *Loader) s3Fetch(ctx context.Context, bucket, key, dst string) error {
	var opts []func(*config.LoadOptions) error
	if l.Region != "" {
		opts = append(opts, config.WithRegion(l.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".model-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	downloader := manager.NewDownloader(s3.NewFromConfig(cfg))
	_, err = downloader.Download(ctx, tmp, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
