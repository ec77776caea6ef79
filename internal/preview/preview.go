// Package preview renders the preview tab of a note detail view.
package preview

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/starford/noteshub/internal/models"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown builds the preview document of a note. Uploaded bytes are never
// kept, so the preview is assembled from the note's metadata.
func Markdown(n models.Note) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", n.Title)
	fmt.Fprintf(&b, "*%s · %s · by %s*\n\n", n.Subject, n.Course, n.Author)
	if n.Description != "" {
		b.WriteString(n.Description)
		b.WriteString("\n\n")
	}
	b.WriteString("| File type | Uploaded | Rating | Likes | Downloads |\n")
	b.WriteString("|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %s | %s | %.1f | %d | %d |\n", n.FileType, n.UploadDate, n.Rating, n.Likes, n.Downloads)
	if n.FileName != "" {
		fmt.Fprintf(&b, "\nFile: `%s` (%s)\n", n.FileName, n.FileSize)
	}
	if len(n.Tags) > 0 {
		b.WriteString("\nTags: ")
		for i, t := range n.Tags {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "`%s`", t)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HTML renders the preview document to HTML. Raw HTML in note fields is
// not passed through.
func HTML(n models.Note) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(n)), &buf); err != nil {
		return "", fmt.Errorf("preview: render: %w", err)
	}
	return buf.String(), nil
}
