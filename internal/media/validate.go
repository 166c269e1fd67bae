package media

import (
	"fmt"
	"path"
	"strings"

	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	pkgerrors "github.com/malehdhliso/chartedart-backend/pkg/errors"
)

const maxUploadBytes = 10 * 1024 * 1024

var contentTypesByExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// ValidateInput carries the client-side file facts checked before any
// network call.
type ValidateInput struct {
	FileName  string
	SizeBytes int64
	Width     int
	Height    int
	PrintSize enums.PrintSize
}

// QualityWarning flags an image that prints below the chosen size's
// standard. It never blocks the upload.
type QualityWarning struct {
	Message         string           `json:"message"`
	RecommendedSize *enums.PrintSize `json:"recommended_size,omitempty"`
}

// ValidationResult reports the outcome of a successful validation.
type ValidationResult struct {
	ContentType string          `json:"content_type"`
	Warning     *QualityWarning `json:"warning,omitempty"`
}

// ValidateUpload checks type, size, and print resolution. Type and size
// failures are hard errors; a low resolution only yields a warning
// recommending the largest size the image does satisfy.
func ValidateUpload(input ValidateInput) (*ValidationResult, error) {
	name := strings.TrimSpace(input.FileName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file name is required")
	}
	contentType, ok := contentTypesByExtension[strings.ToLower(path.Ext(name))]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only JPEG and PNG images are supported")
	}

	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file size must be positive")
	}
	if input.SizeBytes > maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file exceeds the 10MB limit")
	}

	if !input.PrintSize.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid print size")
	}
	if input.Width <= 0 || input.Height <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image dimensions are required")
	}

	result := &ValidationResult{ContentType: contentType}

	shorter := input.Width
	if input.Height < shorter {
		shorter = input.Height
	}
	if shorter >= input.PrintSize.MinPixels() {
		return result, nil
	}

	if recommended := largestQualifyingSize(shorter); recommended != nil {
		result.Warning = &QualityWarning{
			Message: fmt.Sprintf(
				"image resolution is below the %s print standard; %s or smaller will print sharply",
				input.PrintSize.Label(), recommended.Label(),
			),
			RecommendedSize: recommended,
		}
	} else {
		result.Warning = &QualityWarning{
			Message: "image resolution is low and may print with visible quality loss at any size",
		}
	}
	return result, nil
}

// largestQualifyingSize returns the biggest print size whose minimum the
// shorter image dimension still meets.
func largestQualifyingSize(shorter int) *enums.PrintSize {
	var best *enums.PrintSize
	for _, size := range enums.PrintSizesBySize {
		if shorter >= size.MinPixels() {
			s := size
			best = &s
		}
	}
	return best
}
