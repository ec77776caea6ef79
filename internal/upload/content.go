package upload

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/noteshub/internal/apperr"
)

// sniffLen is how much content http.DetectContentType looks at.
const sniffLen = 512

var safeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFilename strips path components and unsafe characters from an
// uploaded file name. An empty name stays empty so ValidateFile can reject it.
func SanitizeFilename(name string) string {
	if name == "" {
		return ""
	}
	name = filepath.Base(name)
	name = safeFilenameRe.ReplaceAllString(name, "_")
	if name == "" || name == "." || strings.Trim(name, "_") == "" {
		name = uuid.NewString()
	}
	return name
}

// CheckContent verifies that head, the first bytes of a file, matches the
// extension of name for the formats that can be sniffed reliably. DOC and
// PPT are not checked.
func CheckContent(name string, head []byte) error {
	ext := strings.ToLower(filepath.Ext(name))
	detected := strings.Split(http.DetectContentType(head), ";")[0]
	ok := true
	switch ext {
	case ".pdf":
		ok = detected == "application/pdf"
	case ".txt", ".md":
		ok = strings.HasPrefix(detected, "text/")
	case ".docx", ".pptx":
		ok = detected == "application/zip"
	}
	if !ok {
		return apperr.Invalid("file", fmt.Sprintf("content does not match extension %s (detected: %s)", ext, detected))
	}
	return nil
}

// peek reads up to sniffLen bytes from r and returns them with a reader
// that yields the whole stream again.
func peek(r io.Reader) ([]byte, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, nil, err
	}
	head = head[:n]
	return head, io.MultiReader(bytes.NewReader(head), r), nil
}
