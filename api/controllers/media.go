package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/malehdhliso/chartedart-backend/api/responses"
	"github.com/malehdhliso/chartedart-backend/api/validators"
	"github.com/malehdhliso/chartedart-backend/internal/media"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	pkgerrors "github.com/malehdhliso/chartedart-backend/pkg/errors"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
)

// Multipart parsing buffers up to this much in memory; the rest spills to
// temp files.
const uploadMemoryLimit = 8 << 20

// MediaUpload accepts a multipart artwork upload, validates it, and stores
// it in the media bucket. Form fields: file, print_size, width, height.
func MediaUpload(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		width, err := formInt(r, "width")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		height, err := formInt(r, "height")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.Upload(r.Context(), userID, media.UploadInput{
			ValidateInput: media.ValidateInput{
				FileName:  validators.SanitizeString(header.Filename, 255),
				SizeBytes: header.Size,
				Width:     width,
				Height:    height,
				PrintSize: enums.PrintSize(strings.TrimSpace(r.FormValue("print_size"))),
			},
			Body: file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}

// MediaValidate runs the upload checks without storing anything, so clients
// can warn before transferring the full file.
func MediaValidate(logg *logger.Logger) http.HandlerFunc {
	type request struct {
		FileName  string `json:"file_name" validate:"required"`
		SizeBytes int64  `json:"size_bytes" validate:"required"`
		Width     int    `json:"width" validate:"required"`
		Height    int    `json:"height" validate:"required"`
		PrintSize string `json:"print_size" validate:"required"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := media.ValidateUpload(media.ValidateInput{
			FileName:  req.FileName,
			SizeBytes: req.SizeBytes,
			Width:     req.Width,
			Height:    req.Height,
			PrintSize: enums.PrintSize(req.PrintSize),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func formInt(r *http.Request, field string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "form field is required").
			WithDetails(map[string]any{"field": field})
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "form field must be numeric").
			WithDetails(map[string]any{"field": field})
	}
	return value, nil
}
