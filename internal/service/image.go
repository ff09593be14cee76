package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mummysfood/backend/config"
)

// MaxImageSize is the largest accepted upload
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload is a file received from a client
type Upload struct {
	Filename string
	Data     []byte
}

// objectPutter is the part of the S3 client used for uploads
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore stores images in an S3 bucket
type S3ImageStore struct {
	client objectPutter
	bucket string
	urlFor func(key string) string
}

var _ ImageStore = (*S3ImageStore)(nil)

// NewS3ImageStore creates a new S3ImageStore instance
func NewS3ImageStore(cfg *config.S3Config) *S3ImageStore {
	return &S3ImageStore{
		client: cfg.Client,
		bucket: cfg.BucketName,
		urlFor: cfg.ObjectURL,
	}
}

func (s *S3ImageStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.urlFor(key), nil
}

// ImageService validates uploads and writes them to the image store
type ImageService struct {
	store ImageStore
	log   *zap.SugaredLogger
}

// NewImageService creates a new ImageService instance
func NewImageService(store ImageStore, log *zap.SugaredLogger) *ImageService {
	return &ImageService{store: store, log: log}
}

// Upload stores the file under folder and returns its URL
func (s *ImageService) Upload(ctx context.Context, folder string, upload *Upload) (string, error) {
	if len(upload.Data) == 0 {
		return "", newValidationError("file", "is empty")
	}
	if len(upload.Data) > MaxImageSize {
		return "", newValidationError("file", "must be at most %d bytes", MaxImageSize)
	}

	contentType := http.DetectContentType(upload.Data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", newValidationError("file", "unsupported content type %s", contentType)
	}

	key := path.Join(folder, uuid.NewString()+ext)
	url, err := s.store.Put(ctx, key, contentType, upload.Data)
	if err != nil {
		s.log.Errorw("image upload failed", "key", key, "filename", upload.Filename, "error", err)
		return "", &UpstreamError{Service: "image store", Err: err}
	}

	s.log.Infow("uploaded image", "key", key, "bytes", len(upload.Data))
	return url, nil
}
