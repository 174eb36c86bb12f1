package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/civilconnect/marketplace/backend/internal/models"
)

// ErrAttachmentTooLarge rejects uploads over the 10 MB cap before any
// presigned URL is issued.
var ErrAttachmentTooLarge = fmt.Errorf("attachment exceeds the %d MB limit", models.MaxAttachmentSize/(1024*1024))

// StorageService hands out presigned S3 URLs for chat attachments. The
// blob never passes through the API server.
type StorageService struct {
	client *s3.Client
	bucket string
	region string
}

// NewStorageService creates a StorageService against the configured
// bucket.
func NewStorageService(ctx context.Context, region, bucket string) (*StorageService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &StorageService{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

// CreateUploadTicket validates the declared upload and returns a
// presigned PUT URL. Keys are namespaced by sender and suffixed with a
// timestamp plus a UUID so concurrent uploads never collide.
func (s *StorageService) CreateUploadTicket(ctx context.Context, senderID uint, req models.CreateUploadRequest) (*models.UploadTicket, error) {
	if req.Size > models.MaxAttachmentSize {
		return nil, ErrAttachmentTooLarge
	}

	key := fmt.Sprintf("chat-attachments/%d/%d-%s%s",
		senderID, time.Now().Unix(), uuid.NewString(), path.Ext(req.FileName))

	presigner := s3.NewPresignClient(s.client)
	presigned, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(req.ContentType),
		ContentLength: aws.Int64(req.Size),
	}, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	return &models.UploadTicket{
		UploadURL:      presigned.URL,
		PublicURL:      fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key),
		Key:            key,
		AttachmentType: AttachmentTypeFor(req.ContentType),
	}, nil
}

// AttachmentTypeFor classifies a MIME type into the image/video/file
// attachment kinds the chat renders differently.
func AttachmentTypeFor(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.AttachmentImage
	case strings.HasPrefix(contentType, "video/"):
		return models.AttachmentVideo
	default:
		return models.AttachmentFile
	}
}
