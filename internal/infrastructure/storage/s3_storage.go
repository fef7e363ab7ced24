package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/storefront/backend/internal/domain/file"
	infraconfig "github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure S3FileService implements file.Service
var _ file.Service = (*S3FileService)(nil)

// multipartPartSize is the part size used for streaming uploads. S3 requires
// every part except the last to be at least 5 MiB.
const multipartPartSize = 5 << 20

// s3API is the subset of the S3 client used by S3FileService
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	CreateMultipartUpload(ctx context.Context, in *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error)
	UploadPart(ctx context.Context, in *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error)
	CompleteMultipartUpload(ctx context.Context, in *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error)
	AbortMultipartUpload(ctx context.Context, in *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error)
}

// s3Presigner is the subset of the presign client used by S3FileService
type s3Presigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3FileService stores files in an S3-compatible bucket (AWS S3, MinIO, RustFS, ...)
type S3FileService struct {
	client            s3API
	presigner         s3Presigner
	bucket            string
	publicURL         string
	presignExpiration time.Duration
	// objectACL is false for buckets with object ownership enforced, where
	// S3 rejects any request carrying an ACL
	objectACL bool
	logger    *zap.Logger
}

// S3FileServiceOption is a functional option for configuring S3FileService
type S3FileServiceOption func(*S3FileService)

// WithLogger sets a custom logger for S3FileService
func WithLogger(logger *zap.Logger) S3FileServiceOption {
	return func(s *S3FileService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPresignExpiration sets a custom presign expiration duration
func WithPresignExpiration(d time.Duration) S3FileServiceOption {
	return func(s *S3FileService) {
		s.presignExpiration = d
	}
}

// NewS3FileService creates a new S3FileService from configuration.
func NewS3FileService(cfg *infraconfig.StorageConfig, opts ...S3FileServiceOption) (*S3FileService, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	s3cfg := cfg.S3
	if s3cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	region := s3cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	// Without static keys the default chain (env, shared config, IAM role) applies.
	if s3cfg.AccessKey != "" || s3cfg.SecretKey != "" {
		if s3cfg.AccessKey == "" || s3cfg.SecretKey == "" {
			return nil, errors.New("storage access key and secret key must be set together")
		}
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s3cfg.AccessKey, s3cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	endpoint := s3cfg.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	if endpoint != "" {
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = s3cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	publicURL := strings.TrimSuffix(s3cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = defaultPublicURL(endpoint, region, s3cfg.Bucket, s3cfg.UsePathStyle)
	}

	s := &S3FileService{
		client:            client,
		presigner:         s3.NewPresignClient(client),
		bucket:            s3cfg.Bucket,
		publicURL:         publicURL,
		presignExpiration: cfg.PresignExpiration,
		objectACL:         !s3cfg.DisableACL,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.presignExpiration <= 0 {
		s.presignExpiration = 15 * time.Minute
	}
	return s, nil
}

// defaultPublicURL is the URL prefix objects are readable under when no CDN
// prefix is configured
func defaultPublicURL(endpoint, region, bucket string, pathStyle bool) string {
	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	u, err := url.Parse(endpoint)
	if err != nil || pathStyle {
		return strings.TrimSuffix(endpoint, "/") + "/" + bucket
	}
	return fmt.Sprintf("%s://%s.%s", u.Scheme, bucket, u.Host)
}

// EnsureBucket creates the bucket if it doesn't exist.
func (s *S3FileService) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Upload stores a public object
func (s *S3FileService) Upload(ctx context.Context, f file.Upload) (file.Result, error) {
	return s.put(ctx, f, file.ACLPublic)
}

// UploadProtected stores an object under the private prefix
func (s *S3FileService) UploadProtected(ctx context.Context, f file.Upload) (file.Result, error) {
	return s.put(ctx, f, file.ACLPrivate)
}

func (s *S3FileService) put(ctx context.Context, f file.Upload, acl file.ACL) (file.Result, error) {
	if f.Body == nil {
		return file.Result{}, errors.New("upload body is required")
	}
	key := newObjectKey(f.Name, "", acl)
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f.Body,
		ContentType: contentType(f.ContentType),
		ACL:         s.cannedACL(acl),
	}
	if f.Size > 0 {
		in.ContentLength = aws.Int64(f.Size)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return file.Result{}, fmt.Errorf("failed to upload object: %w", err)
	}
	return file.Result{URL: s.objectURL(key), Key: key}, nil
}

// Delete removes an object. S3 reports success for missing keys.
func (s *S3FileService) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// GetUploadStreamDescriptor starts a multipart upload fed by the returned
// writer. The object is committed once the writer is closed; Wait reports
// the outcome.
func (s *S3FileService) GetUploadStreamDescriptor(ctx context.Context, in file.UploadStreamInput) (*file.UploadStreamDescriptor, error) {
	key := newObjectKey(in.Name, in.Ext, in.ACL)
	pr, pw := io.Pipe()
	done := make(chan error, 1)

	go func() {
		err := s.streamUpload(ctx, key, in.ContentType, in.ACL, pr)
		// Unblock a writer still waiting on the pipe.
		pr.CloseWithError(err)
		done <- err
	}()

	return &file.UploadStreamDescriptor{
		Writer: pw,
		URL:    s.objectURL(key),
		Key:    key,
		Wait:   func() error { return <-done },
	}, nil
}

// streamUpload copies r into the bucket. Small payloads take a single
// PutObject; anything larger than one part goes through multipart upload.
func (s *S3FileService) streamUpload(ctx context.Context, key, ct string, acl file.ACL, r io.Reader) error {
	first := make([]byte, multipartPartSize)
	n, err := io.ReadFull(r, first)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	if n < multipartPartSize {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(first[:n]),
			ContentLength: aws.Int64(int64(n)),
			ContentType:   contentType(ct),
			ACL:           s.cannedACL(acl),
		})
		if err != nil {
			return fmt.Errorf("failed to upload object: %w", err)
		}
		return nil
	}

	created, err := s.client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: contentType(ct),
		ACL:         s.cannedACL(acl),
	})
	if err != nil {
		return fmt.Errorf("failed to start multipart upload: %w", err)
	}

	parts, err := s.uploadParts(ctx, key, created.UploadId, first, r)
	if err != nil {
		_, abortErr := s.client.AbortMultipartUpload(context.WithoutCancel(ctx), &s3.AbortMultipartUploadInput{
			Bucket:   aws.String(s.bucket),
			Key:      aws.String(key),
			UploadId: created.UploadId,
		})
		if abortErr != nil {
			s.logger.Warn("Failed to abort multipart upload", zap.String("key", key), zap.Error(abortErr))
		}
		return err
	}

	_, err = s.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(s.bucket),
		Key:             aws.String(key),
		UploadId:        created.UploadId,
		MultipartUpload: &types.CompletedMultipartUpload{Parts: parts},
	})
	if err != nil {
		return fmt.Errorf("failed to complete multipart upload: %w", err)
	}
	return nil
}

func (s *S3FileService) uploadParts(ctx context.Context, key string, uploadID *string, block []byte, r io.Reader) ([]types.CompletedPart, error) {
	var parts []types.CompletedPart
	buf := block
	for partNumber := int32(1); len(buf) > 0; partNumber++ {
		out, err := s.client.UploadPart(ctx, &s3.UploadPartInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(key),
			UploadId:      uploadID,
			PartNumber:    aws.Int32(partNumber),
			Body:          bytes.NewReader(buf),
			ContentLength: aws.Int64(int64(len(buf))),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upload part %d: %w", partNumber, err)
		}
		parts = append(parts, types.CompletedPart{ETag: out.ETag, PartNumber: aws.Int32(partNumber)})

		n, err := io.ReadFull(r, block[:cap(block)])
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, err
		}
		buf = block[:n]
	}
	return parts, nil
}

// DownloadAsStream opens the object for reading
func (s *S3FileService) DownloadAsStream(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to download object: %w", err)
	}
	return out.Body, nil
}

// GetPresignedDownloadURL generates a presigned GET URL
func (s *S3FileService) GetPresignedDownloadURL(ctx context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}
	return req.URL, nil
}

// GetBucket returns the bucket name
func (s *S3FileService) GetBucket() string {
	return s.bucket
}

func (s *S3FileService) objectURL(key string) string {
	return s.publicURL + "/" + key
}

// cannedACL maps the file ACL onto the object ACL sent with uploads. An
// empty value leaves the ACL header off.
func (s *S3FileService) cannedACL(acl file.ACL) types.ObjectCannedACL {
	if !s.objectACL {
		return ""
	}
	if acl == file.ACLPrivate {
		return types.ObjectCannedACLPrivate
	}
	return types.ObjectCannedACLPublicRead
}

func contentType(ct string) *string {
	if ct == "" {
		return nil
	}
	return aws.String(ct)
}
