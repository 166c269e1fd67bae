package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"

	pkgerrors "github.com/malehdhliso/chartedart-backend/pkg/errors"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
)

const uploadPrefix = "user-uploads"

type gcsClient interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, body io.Reader) error
	DeleteObject(ctx context.Context, bucket, object string) error
	PublicURL(bucket, object string) string
	DefaultBucket() string
}

// Service validates and stores user artwork uploads.
type Service interface {
	Upload(ctx context.Context, userID uuid.UUID, input UploadInput) (*UploadOutput, error)
	Delete(ctx context.Context, objectPath string) error
}

// UploadInput is a validated-and-stored upload request.
type UploadInput struct {
	ValidateInput
	Body io.Reader
}

// UploadOutput points at the stored object.
type UploadOutput struct {
	ObjectPath string          `json:"object_path"`
	PublicURL  string          `json:"public_url"`
	Warning    *QualityWarning `json:"warning,omitempty"`
}

type service struct {
	gcs    gcsClient
	bucket string
	logg   *logger.Logger
}

// ServiceParams bundles the dependencies required to build a media service.
type ServiceParams struct {
	GCS    gcsClient
	Bucket string
	Logger *logger.Logger
}

// NewService constructs a media service backed by the provided GCS client.
func NewService(params ServiceParams) (Service, error) {
	if params.GCS == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	bucket := params.Bucket
	if bucket == "" {
		bucket = params.GCS.DefaultBucket()
	}
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	return &service{
		gcs:    params.GCS,
		bucket: bucket,
		logg:   params.Logger,
	}, nil
}

// Upload validates the file locally, then stores it under the caller's
// prefix and returns the public URL. A quality warning rides along without
// blocking the upload.
func (s *service) Upload(ctx context.Context, userID uuid.UUID, input UploadInput) (*UploadOutput, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file body is required")
	}

	result, err := ValidateUpload(input.ValidateInput)
	if err != nil {
		return nil, err
	}

	objectPath := buildObjectPath(userID, input.FileName)
	if err := s.gcs.UploadObject(ctx, s.bucket, objectPath, result.ContentType, input.Body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload object")
	}

	if s.logg != nil {
		s.logg.Info(ctx, "artwork uploaded")
	}
	return &UploadOutput{
		ObjectPath: objectPath,
		PublicURL:  s.gcs.PublicURL(s.bucket, objectPath),
		Warning:    result.Warning,
	}, nil
}

// Delete removes a stored object by its path.
func (s *service) Delete(ctx context.Context, objectPath string) error {
	clean := strings.TrimSpace(objectPath)
	if clean == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "object path is required")
	}
	if err := s.gcs.DeleteObject(ctx, s.bucket, clean); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete object")
	}
	return nil
}

func buildObjectPath(userID uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	id := uuid.NewString()
	if cleanName == "" {
		return fmt.Sprintf("%s/%s/%s", uploadPrefix, userID, id)
	}
	return fmt.Sprintf("%s/%s/%s-%s", uploadPrefix, userID, id, cleanName)
}

func sanitizeFileName(name string) string {
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" || clean == "." {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
