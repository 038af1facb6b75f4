package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/dvi/internal/models"
	sc "github.com/dmitrijs2005/dvi/internal/server/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/heic": ".heic",
	"image/webp": ".webp",
}

type PhotoService struct {
	config *sc.Config
	now    func() time.Time
	newID  func() string
}

func NewPhotoService(cfg *sc.Config) *PhotoService {
	return &PhotoService{
		config: cfg,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

func (s *PhotoService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// photoKey lays photos out per mechanic and day, e.g.
// photos/12/2024-05-01/<uuid>.jpg.
func (s *PhotoService) photoKey(mechanicID int64, contentType string) string {
	return fmt.Sprintf("photos/%d/%s/%s%s",
		mechanicID, s.now().UTC().Format(time.DateOnly), s.newID(), photoExtensions[contentType])
}

// PresignUpload returns a storage key and a presigned PUT URL the device
// uploads the photo bytes to.
func (s *PhotoService) PresignUpload(ctx context.Context, mechanicID int64, contentType string) (models.PhotoUpload, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return models.PhotoUpload{}, err
	}

	key := s.photoKey(mechanicID, contentType)

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	req, err := presignPutObject(presignClient, ctx, in, s3.WithPresignExpires(s.config.PhotoURLValidityDuration))
	if err != nil {
		return models.PhotoUpload{}, err
	}

	return models.PhotoUpload{Key: key, URL: req.URL}, nil
}
