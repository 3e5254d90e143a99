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

	"vivaah_server/models"
)

const presignExpiry = 5 * time.Minute

var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Presigner is the subset of *s3.PresignClient used for photo uploads
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedRequest, error)
}

// PresignedRequest mirrors the parts of v4.PresignedHTTPRequest callers need
type PresignedRequest struct {
	URL    string
	Method string
}

// s3Presigner adapts *s3.PresignClient to Presigner
type s3Presigner struct {
	client *s3.PresignClient
}

func (p s3Presigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedRequest, error) {
	req, err := p.client.PresignPutObject(ctx, params, optFns...)
	if err != nil {
		return nil, err
	}
	return &PresignedRequest{URL: req.URL, Method: req.Method}, nil
}

// PhotoUpload is returned to the client before it uploads a profile photo
type PhotoUpload struct {
	UploadURL string    `json:"uploadUrl"`
	Method    string    `json:"method"`
	Key       string    `json:"key"`
	PhotoURL  string    `json:"photoUrl"` // goes into profile.photos once uploaded
	ExpiresAt time.Time `json:"expiresAt"`
}

// PhotoService issues presigned uploads for profile photos
type PhotoService struct {
	Presigner Presigner
	Bucket    string
	BaseURL   string // public URL prefix the bucket is served from
	Now       func() time.Time
}

// NewPhotoService creates a photo service backed by the default AWS config
func NewPhotoService(ctx context.Context, region, bucket, baseURL string) (*PhotoService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &PhotoService{
		Presigner: s3Presigner{client: s3.NewPresignClient(s3.NewFromConfig(cfg))},
		Bucket:    bucket,
		BaseURL:   strings.TrimRight(baseURL, "/"),
		Now:       time.Now,
	}, nil
}

// PresignUpload presigns a PUT for one photo owned by caller
func (s *PhotoService) PresignUpload(ctx context.Context, caller models.Caller, fileName, contentType string) (*PhotoUpload, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthorized
	}
	ext, ok := allowedPhotoTypes[contentType]
	if !ok {
		return nil, invalid("contentType", "contentType must be one of: image/jpeg, image/png, image/webp")
	}
	name := path.Base(strings.TrimSpace(fileName))
	base := strings.TrimSuffix(name, path.Ext(name))
	if base == "" || base == "." || base == "/" {
		base = uuid.NewString()
	}

	now := s.Now().UTC()
	key := fmt.Sprintf("profile-photos/%s/%s-%s%s", caller.UserID, now.Format("20060102150405"), sanitizeKey(base), ext)
	req, err := s.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, upstream("presign photo upload", err)
	}

	return &PhotoUpload{
		UploadURL: req.URL,
		Method:    req.Method,
		Key:       key,
		PhotoURL:  s.BaseURL + "/" + key,
		ExpiresAt: now.Add(presignExpiry),
	}, nil
}

func sanitizeKey(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
