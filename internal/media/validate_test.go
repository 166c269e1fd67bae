package media

import (
	"testing"

	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	pkgerrors "github.com/malehdhliso/chartedart-backend/pkg/errors"
)

func validInput() ValidateInput {
	return ValidateInput{
		FileName:  "sunset.jpg",
		SizeBytes: 2 * 1024 * 1024,
		Width:     4000,
		Height:    3000,
		PrintSize: enums.PrintSizeA3,
	}
}

func TestValidateUploadAcceptsGoodFile(t *testing.T) {
	result, err := ValidateUpload(validInput())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.ContentType != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %s", result.ContentType)
	}
	if result.Warning != nil {
		t.Fatalf("expected no warning for a high-resolution image, got %+v", result.Warning)
	}
}

func TestValidateUploadRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ValidateInput)
	}{
		{"unsupported extension", func(in *ValidateInput) { in.FileName = "art.gif" }},
		{"missing name", func(in *ValidateInput) { in.FileName = "  " }},
		{"oversized", func(in *ValidateInput) { in.SizeBytes = maxUploadBytes + 1 }},
		{"zero size", func(in *ValidateInput) { in.SizeBytes = 0 }},
		{"unknown print size", func(in *ValidateInput) { in.PrintSize = "a9" }},
		{"missing dimensions", func(in *ValidateInput) { in.Width = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			_, err := ValidateUpload(input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestValidateUploadWarnsAndRecommendsLargestFit(t *testing.T) {
	// A 2000px shorter side misses A2 (3508) and A3 (2480); the largest
	// size it satisfies is A4 (1748).
	input := validInput()
	input.PrintSize = enums.PrintSizeA2
	input.Width = 2600
	input.Height = 2000

	result, err := ValidateUpload(input)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.Warning == nil {
		t.Fatalf("expected a quality warning")
	}
	if result.Warning.RecommendedSize == nil || *result.Warning.RecommendedSize != enums.PrintSizeA4 {
		t.Fatalf("expected A4 recommendation, got %v", result.Warning.RecommendedSize)
	}
}

func TestValidateUploadWarnsWithoutRecommendationWhenNothingFits(t *testing.T) {
	input := validInput()
	input.PrintSize = enums.PrintSizeA4
	input.Width = 900
	input.Height = 700

	result, err := ValidateUpload(input)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.Warning == nil {
		t.Fatalf("expected a quality warning")
	}
	if result.Warning.RecommendedSize != nil {
		t.Fatalf("expected no recommendation below every minimum, got %v", result.Warning.RecommendedSize)
	}
}

func TestValidateUploadBoundaryResolution(t *testing.T) {
	input := validInput()
	input.PrintSize = enums.PrintSizeA4
	input.Width = 1748
	input.Height = 2480

	result, err := ValidateUpload(input)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.Warning != nil {
		t.Fatalf("meeting the minimum exactly must not warn, got %+v", result.Warning)
	}
}
