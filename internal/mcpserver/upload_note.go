package mcpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/noteshub/internal/upload"
)

var mimeToExt = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   ".docx",
	"application/vnd.ms-powerpoint":                                             ".ppt",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": ".pptx",
	"text/plain":    ".txt",
	"text/markdown": ".md",
}

// uploadNote decodes the inline file and hands it to the same upload flow
// as the HTTP form, so name, size, type and content checks are shared.
func (s *Server) uploadNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, err := req.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, detectedExt, err := decodeContent(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if filepath.Ext(filename) == "" {
		filename += detectedExt
	}

	form := upload.Form{
		Title:       req.GetString("title", ""),
		Subject:     req.GetString("subject", ""),
		Course:      req.GetString("course", ""),
		Description: req.GetString("description", ""),
		FileType:    req.GetString("file_type", ""),
		Tags:        req.GetString("tags", ""),
	}
	n, err := s.svc.Upload(ctx, form, upload.File{
		Name:    filename,
		Size:    int64(len(data)),
		Content: bytes.NewReader(data),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(n)
}

// decodeContent accepts plain base64 or a data:[<mediatype>];base64,<data>
// URI. The extension implied by a data URI's media type is returned when
// known.
func decodeContent(raw string) ([]byte, string, error) {
	encoded := raw
	ext := ""
	if rest, ok := strings.CutPrefix(raw, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", fmt.Errorf("invalid data URI: missing comma separator")
		}
		if !strings.Contains(meta, ";base64") {
			return nil, "", fmt.Errorf("only base64 data URIs are supported")
		}
		mime := strings.Split(strings.TrimSuffix(meta, ";base64"), ";")[0]
		ext = mimeToExt[mime]
		encoded = payload
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, "", fmt.Errorf("invalid base64 data: %w", err)
		}
	}
	return data, ext, nil
}
