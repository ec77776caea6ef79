// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes NotesHub tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/noteshub/internal/apperr"
	"github.com/starford/noteshub/internal/noteservice"
	"github.com/starford/noteshub/internal/search"
)

// FilterOptionsURI names the filter-options resource.
const FilterOptionsURI = "noteshub://filter-options"

// Server wraps the MCP server with NotesHub tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all NotesHub tools registered.
func New(svc *noteservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"NotesHub",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Search study notes by free text and filters. Text matches title, description, "+
			"subject and course case-insensitively. Every filter defaults to All; see "+
			"list_filter_options for the accepted values."),
		mcp.WithString("query", mcp.Description("Free-text query (empty matches everything)")),
		mcp.WithString("subject", mcp.Description("Exact subject, e.g. Mathematics")),
		mcp.WithString("course", mcp.Description("Exact course, e.g. Calculus")),
		mcp.WithString("author", mcp.Description("Exact author name")),
		mcp.WithString("rating", mcp.Description("Minimum rating such as \"4+ Stars\"")),
		mcp.WithString("uploadDate", mcp.Description("Last Week, Last Month, Last 3 Months, or a YYYY-MM-DD date")),
		mcp.WithString("fileType", mcp.Description("PDF, DOCX, DOC, PPT, TXT or MD")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a note with its comment thread."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("like_note",
		mcp.WithDescription("Toggle the like flag of a note. Liking twice restores the original count."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Note id")),
	), s.likeNote)

	s.mcp.AddTool(mcp.NewTool("add_comment",
		mcp.WithDescription("Append a comment to a note's thread."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Comment text")),
	), s.addComment)

	s.mcp.AddTool(mcp.NewTool("add_reply",
		mcp.WithDescription("Reply to a top-level comment. Replies cannot be nested."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithNumber("comment_id", mcp.Required(), mcp.Description("Comment id to reply to")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Reply text")),
	), s.addReply)

	s.mcp.AddTool(mcp.NewTool("list_filter_options",
		mcp.WithDescription("List the selectable values of every search filter."),
	), s.listFilterOptions)

	s.mcp.AddTool(mcp.NewTool("upload_note",
		mcp.WithDescription("Upload a study note. The file is given as base64 or a base64 data URI "+
			"and must be a PDF, DOCX, DOC, PPT, PPTX, TXT or MD file under 10MB."),
		mcp.WithString("filename", mcp.Required(), mcp.Description("File name including extension")),
		mcp.WithString("content", mcp.Required(), mcp.Description("File bytes, base64 encoded")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("subject", mcp.Required(), mcp.Description("Subject")),
		mcp.WithString("course", mcp.Required(), mcp.Description("Course")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Short description")),
		mcp.WithString("file_type", mcp.Description("Overrides the type implied by the extension")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
	), s.uploadNote)

	s.mcp.AddResource(
		mcp.NewResource(FilterOptionsURI, "Filter Options",
			mcp.WithResourceDescription("Selectable values of every search filter dimension."),
			mcp.WithMIMEType("application/json"),
		),
		s.readFilterOptionsResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// errorResult turns a domain error into a tool error with a readable message.
func errorResult(err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrValidation) {
		return mcp.NewToolResultError(apperr.Message(err))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel := search.DefaultSelection()
	for _, d := range search.Dimensions {
		if v := req.GetString(string(d), ""); v != "" {
			if err := sel.Set(d, v); err != nil {
				return errorResult(err), nil
			}
		}
	}
	return jsonResult(s.svc.Browse(ctx, req.GetString("query", ""), sel))
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.GetNote(ctx, int64(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("note not found: %d", id)), nil
	}
	return jsonResult(n)
}

func (s *Server) likeNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.ToggleLike(ctx, int64(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("note not found: %d", id)), nil
	}
	return jsonResult(n)
}

func (s *Server) addComment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.AddComment(ctx, int64(id), text)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(n)
}

func (s *Server) addReply(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cid, err := req.RequireInt("comment_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, ok, err := s.svc.AddReply(ctx, int64(id), int64(cid), text)
	if err != nil {
		return errorResult(err), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("comment not found: %d", cid)), nil
	}
	return jsonResult(n)
}

func (s *Server) listFilterOptions(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.FilterOptions())
}

func (s *Server) readFilterOptionsResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	out, err := json.MarshalIndent(s.svc.FilterOptions(), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FilterOptionsURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}
