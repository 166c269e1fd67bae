package media

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	pkgerrors "github.com/malehdhliso/chartedart-backend/pkg/errors"
)

type fakeGCS struct {
	uploads map[string]string
	deleted []string
}

func newFakeGCS() *fakeGCS {
	return &fakeGCS{uploads: map[string]string{}}
}

func (f *fakeGCS) UploadObject(ctx context.Context, bucket, object, contentType string, body io.Reader) error {
	f.uploads[object] = contentType
	return nil
}

func (f *fakeGCS) DeleteObject(ctx context.Context, bucket, object string) error {
	f.deleted = append(f.deleted, object)
	return nil
}

func (f *fakeGCS) PublicURL(bucket, object string) string {
	return "https://storage.googleapis.com/" + bucket + "/" + object
}

func (f *fakeGCS) DefaultBucket() string {
	return "chartedart-media"
}

func newMediaService(t *testing.T, gcs *fakeGCS) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{GCS: gcs})
	if err != nil {
		t.Fatalf("new media service: %v", err)
	}
	return svc
}

func TestUploadStoresUnderUserPrefix(t *testing.T) {
	gcs := newFakeGCS()
	svc := newMediaService(t, gcs)
	userID := uuid.New()

	out, err := svc.Upload(context.Background(), userID, UploadInput{
		ValidateInput: ValidateInput{
			FileName:  "My Sunset.PNG",
			SizeBytes: 1024,
			Width:     4000,
			Height:    3000,
			PrintSize: enums.PrintSizeA3,
		},
		Body: strings.NewReader("fake image bytes"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	prefix := "user-uploads/" + userID.String() + "/"
	if !strings.HasPrefix(out.ObjectPath, prefix) {
		t.Fatalf("expected object under %s, got %s", prefix, out.ObjectPath)
	}
	if !strings.HasSuffix(out.ObjectPath, "-My-Sunset.PNG") {
		t.Fatalf("expected sanitized file name suffix, got %s", out.ObjectPath)
	}
	if got := gcs.uploads[out.ObjectPath]; got != "image/png" {
		t.Fatalf("expected image/png content type, got %q", got)
	}
	if !strings.HasSuffix(out.PublicURL, out.ObjectPath) {
		t.Fatalf("expected public url for the object, got %s", out.PublicURL)
	}
	if out.Warning != nil {
		t.Fatalf("unexpected warning: %+v", out.Warning)
	}
}

func TestUploadCarriesQualityWarning(t *testing.T) {
	gcs := newFakeGCS()
	svc := newMediaService(t, gcs)

	out, err := svc.Upload(context.Background(), uuid.New(), UploadInput{
		ValidateInput: ValidateInput{
			FileName:  "lowres.jpg",
			SizeBytes: 1024,
			Width:     1800,
			Height:    1900,
			PrintSize: enums.PrintSizeA0,
		},
		Body: strings.NewReader("fake image bytes"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if out.Warning == nil {
		t.Fatalf("expected a warning for a low-resolution upload")
	}
	if len(gcs.uploads) != 1 {
		t.Fatalf("warning must not block the upload, got %d stored objects", len(gcs.uploads))
	}
}

func TestUploadRejectsInvalidFileWithoutStoring(t *testing.T) {
	gcs := newFakeGCS()
	svc := newMediaService(t, gcs)

	_, err := svc.Upload(context.Background(), uuid.New(), UploadInput{
		ValidateInput: ValidateInput{
			FileName:  "clip.mp4",
			SizeBytes: 1024,
			Width:     4000,
			Height:    3000,
			PrintSize: enums.PrintSizeA4,
		},
		Body: strings.NewReader("not an image"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(gcs.uploads) != 0 {
		t.Fatalf("rejected upload must not reach storage")
	}
}

func TestDeleteByPath(t *testing.T) {
	gcs := newFakeGCS()
	svc := newMediaService(t, gcs)

	if err := svc.Delete(context.Background(), "user-uploads/abc/img.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(gcs.deleted) != 1 || gcs.deleted[0] != "user-uploads/abc/img.png" {
		t.Fatalf("expected delete pass-through, got %v", gcs.deleted)
	}

	err := svc.Delete(context.Background(), "   ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty path, got %v", err)
	}
}
