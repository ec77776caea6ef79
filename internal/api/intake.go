package api

import (
	"errors"
	"net/http"

	"github.com/starford/noteshub/internal/apperr"
	"github.com/starford/noteshub/internal/upload"
)

// multipartOverhead allows for form fields and part headers around the file.
const multipartOverhead = 1 << 20

// readUpload parses a multipart upload (field "file" plus form fields). The
// body is capped just above the size limit so oversize files are rejected
// without being buffered whole.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (upload.Form, upload.File, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	noop := func() {}

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || r.ContentLength > maxBytes+multipartOverhead {
			return upload.Form{}, upload.File{}, noop, upload.ErrFileTooLarge
		}
		return upload.Form{}, upload.File{}, noop, apperr.Invalid("file", "invalid multipart form")
	}
	cleanup := func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	form := upload.Form{
		Title:       r.FormValue("title"),
		Subject:     r.FormValue("subject"),
		Course:      r.FormValue("course"),
		Description: r.FormValue("description"),
		FileType:    r.FormValue("fileType"),
		Tags:        r.FormValue("tags"),
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return form, upload.File{}, cleanup, nil
		}
		return form, upload.File{}, cleanup, err
	}
	return form, upload.File{Name: header.Filename, Size: header.Size, Content: file}, func() {
		_ = file.Close()
		cleanup()
	}, nil
}
