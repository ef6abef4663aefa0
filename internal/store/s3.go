package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"shelf-go/internal/shelf"
)

// stateObjectName is the object holding the state document under the prefix.
const stateObjectName = "state.json"

// objectGetter is the subset of *s3.Client used for loads.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// objectUploader is the subset of *manager.Uploader used for saves.
type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Options configures an S3Store.
type S3Options struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string // optional, for S3-compatible services such as MinIO
	AccessKeyID     string // optional; the default credential chain is used when empty
	SecretAccessKey string
}

// S3Store keeps the state document as a single object: <prefix>/state.json.
type S3Store struct {
	getter   objectGetter
	uploader objectUploader
	bucket   string
	key      string
}

var _ shelf.StateStore = (*S3Store)(nil)

// NewS3Store creates a store backed by a bucket. Credentials come from the
// options when set, otherwise from the default AWS chain.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 store requires s3_bucket to be set")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, manager.NewUploader(client), opts.Bucket, opts.Prefix), nil
}

func newS3Store(getter objectGetter, uploader objectUploader, bucket, prefix string) *S3Store {
	return &S3Store{
		getter:   getter,
		uploader: uploader,
		bucket:   bucket,
		key:      path.Join(prefix, stateObjectName),
	}
}

// Key returns the object key of the state document.
func (s *S3Store) Key() string { return s.key }

// Load fetches the state object. A missing object is an empty state.
func (s *S3Store) Load(ctx context.Context) (*shelf.State, error) {
	out, err := s.getter.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return shelf.NewState(), nil
		}
		return nil, fmt.Errorf("getting s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return shelf.DecodeState(data)
}

// Save uploads the whole document, replacing the previous object.
func (s *S3Store) Save(ctx context.Context, state *shelf.State) error {
	data, err := shelf.EncodeState(state)
	if err != nil {
		return err
	}
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("uploading s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

func (s *S3Store) Close() error { return nil }
