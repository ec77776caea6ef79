// Package upload implements the note upload and download flows: intake
// validation, simulated transfer latency, and note creation.
package upload

import (
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/noteshub/internal/apperr"
	"github.com/starford/noteshub/internal/models"
)

// DefaultMaxBytes is the largest accepted file.
const DefaultMaxBytes = 10 << 20 // 10 MiB

var allowedExtensions = map[string]models.FileType{
	".pdf":  models.FileTypePDF,
	".docx": models.FileTypeDOCX,
	".doc":  models.FileTypeDOC,
	".ppt":  models.FileTypePPT,
	".pptx": models.FileTypePPT,
	".txt":  models.FileTypeTXT,
	".md":   models.FileTypeMD,
}

// MsgMissingFields is shown when a required form field is blank.
const MsgMissingFields = "Please fill in all required fields"

// User-facing rejections.
var (
	ErrFileTooLarge    = apperr.Invalid("file", "File size should be less than 10MB")
	ErrUnsupportedType = apperr.Invalid("file", "Please upload a valid file (PDF, DOCX, PPT, TXT, MD)")
	ErrFileRequired    = apperr.Invalid("file", "Please select a file to upload")
	ErrUnknownFileType = apperr.Invalid("fileType", "Please choose a supported file type")
)

// ValidateFile checks a candidate file's name and size and returns the file
// type implied by its extension. Every intake path goes through here.
func ValidateFile(name string, size, maxBytes int64) (models.FileType, error) {
	if name == "" {
		return "", ErrFileRequired
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if size > maxBytes {
		return "", ErrFileTooLarge
	}
	ft, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return "", ErrUnsupportedType
	}
	return ft, nil
}

// Form is the metadata submitted with an upload.
type Form struct {
	Title       string `json:"title"`
	Subject     string `json:"subject"`
	Course      string `json:"course"`
	Description string `json:"description"`
	// FileType overrides the type derived from the file extension.
	FileType string `json:"fileType"`
	// Tags is a comma-separated list.
	Tags string `json:"tags"`
}

// Validate requires the descriptive fields.
func (f Form) Validate() error {
	if err := validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required),
		validation.Field(&f.Subject, validation.Required),
		validation.Field(&f.Course, validation.Required),
		validation.Field(&f.Description, validation.Required),
	); err != nil {
		return apperr.FromFieldErrors(err, MsgMissingFields)
	}
	if f.FileType != "" {
		if err := validation.Validate(models.FileType(strings.ToUpper(f.FileType)),
			validation.In(models.FileTypePDF, models.FileTypeDOCX, models.FileTypeDOC,
				models.FileTypePPT, models.FileTypeTXT, models.FileTypeMD),
		); err != nil {
			return ErrUnknownFileType
		}
	}
	return nil
}

// ParseTags splits a comma-separated tag list, trimming blanks.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
