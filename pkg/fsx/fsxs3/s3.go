package fsxs3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/Abraxas-365/bolsa/pkg/fsx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of *s3.Client used here
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3FileSystem stores objects under bucket/prefix
type S3FileSystem struct {
	client    S3API
	bucket    string
	prefix    string
	publicURL string
}

var _ fsx.FileSystem = (*S3FileSystem)(nil)

type Option func(*S3FileSystem)

// WithPublicURL sets the base URL returned by URL, e.g. a CloudFront domain
func WithPublicURL(base string) Option {
	return func(fs *S3FileSystem) {
		fs.publicURL = strings.TrimRight(base, "/")
	}
}

func NewS3FileSystem(client S3API, bucket, prefix string, opts ...Option) *S3FileSystem {
	fs := &S3FileSystem{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
	for _, opt := range opts {
		opt(fs)
	}
	return fs
}

func (fs *S3FileSystem) key(p string) string {
	p = strings.TrimLeft(p, "/")
	if fs.prefix == "" {
		return p
	}
	return fs.prefix + "/" + p
}

func (fs *S3FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	return fs.WriteFileStream(ctx, p, bytes.NewReader(data), "")
}

func (fs *S3FileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader, contentType string) error {
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(p))
	}
	input := &s3.PutObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := fs.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put object %s: %w", p, err)
	}
	return nil
}

func (fs *S3FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	rc, err := fs.ReadFileStream(ctx, p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (fs *S3FileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	out, err := fs.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fsx.ErrNotExist
		}
		return nil, fmt.Errorf("get object %s: %w", p, err)
	}
	return out.Body, nil
}

// DeleteFile succeeds for missing keys, matching S3 semantics
func (fs *S3FileSystem) DeleteFile(ctx context.Context, p string) error {
	if _, err := fs.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	}); err != nil {
		return fmt.Errorf("delete object %s: %w", p, err)
	}
	return nil
}

func (fs *S3FileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

func (fs *S3FileSystem) URL(p string) string {
	if fs.publicURL != "" {
		return fs.publicURL + "/" + fs.key(p)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", fs.bucket, fs.key(p))
}
