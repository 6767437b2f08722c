// Package deploy uploads a built asset directory to an S3 bucket.
package deploy

import (
	"context"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	lumenerrors "github.com/lumen-go/lumen/internal/errors"
	"github.com/lumen-go/lumen/pkg/assets"
)

// ObjectPutter is the part of the S3 client the deployer needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures a Deployer.
type Options struct {
	// Bucket is the destination S3 bucket.
	Bucket string

	// Prefix is prepended to every object key (e.g. "site/").
	Prefix string

	// Logger receives per-file progress. Defaults to slog.Default().
	Logger *slog.Logger
}

// Deployer uploads files to a bucket with web-appropriate content types and
// cache headers.
type Deployer struct {
	client ObjectPutter
	opts   Options
}

// New builds a deployer around an S3 client.
func New(client ObjectPutter, opts Options) *Deployer {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Deployer{client: client, opts: opts}
}

// NewClient builds an S3 client from the ambient AWS configuration
// (environment, shared config files, instance role).
func NewClient(ctx context.Context, region string) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg), nil
}

// Dir uploads every regular file under dir, preserving the directory
// structure in the object keys. It returns the number of files uploaded.
func (d *Deployer) Dir(ctx context.Context, dir string) (int, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return 0, lumenerrors.New("E161").WithDetail("expected directory: " + dir)
	}

	count := 0
	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := d.opts.Prefix + filepath.ToSlash(rel)

		if err := d.putFile(ctx, path, key); err != nil {
			return lumenerrors.New("E162").
				WithDetail("object key: " + key).
				Wrap(err)
		}

		d.opts.Logger.Info("uploaded", "key", key)
		count++
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, nil
}

func (d *Deployer) putFile(ctx context.Context, path, key string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(d.opts.Bucket),
		Key:          aws.String(key),
		Body:         f,
		ContentType:  aws.String(contentType(key)),
		CacheControl: aws.String(cacheControl(key)),
	})
	return err
}

// contentType resolves the MIME type from the file extension, falling back
// to octet-stream for unknown extensions.
func contentType(key string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(key))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// cacheControl mirrors the server's static caching: fingerprinted files are
// immutable, everything else revalidates after an hour.
func cacheControl(key string) string {
	if assets.IsFingerprinted(key) {
		return "public, max-age=31536000, immutable"
	}
	return "public, max-age=3600, must-revalidate"
}
