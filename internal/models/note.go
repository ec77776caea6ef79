// Package models defines the domain types for NotesHub.
package models

import (
	"slices"
	"time"
)

// DateLayout is the calendar-date format used for upload dates.
const DateLayout = "2006-01-02"

// FileType is the document format of a note's file.
type FileType string

const (
	FileTypePDF  FileType = "PDF"
	FileTypeDOCX FileType = "DOCX"
	FileTypeDOC  FileType = "DOC"
	FileTypePPT  FileType = "PPT"
	FileTypeTXT  FileType = "TXT"
	FileTypeMD   FileType = "MD"
)

// Note is a single study-material record.
//
// Liked is a single flag shared by every viewer: there is no per-user like
// tracking, so one viewer's toggle changes what all viewers see.
type Note struct {
	ID          int64     `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Subject     string    `json:"subject" yaml:"subject"`
	Course      string    `json:"course" yaml:"course"`
	Author      string    `json:"author" yaml:"author"`
	Rating      float64   `json:"rating" yaml:"rating"`
	UploadDate  string    `json:"uploadDate" yaml:"uploadDate"`
	FileType    FileType  `json:"fileType" yaml:"fileType"`
	Likes       int       `json:"likes" yaml:"likes"`
	Downloads   int       `json:"downloads" yaml:"downloads"`
	Description string    `json:"description" yaml:"description"`
	Liked       bool      `json:"liked" yaml:"liked"`
	Comments    []Comment `json:"comments" yaml:"comments"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	FileName    string    `json:"fileName,omitempty" yaml:"fileName,omitempty"`
	FileSize    string    `json:"fileSize,omitempty" yaml:"fileSize,omitempty"`
	Checksum    string    `json:"checksum,omitempty" yaml:"checksum,omitempty"`
}

// Uploaded parses UploadDate. The zero time is returned for malformed dates.
func (n Note) Uploaded() time.Time {
	t, err := time.Parse(DateLayout, n.UploadDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Clone returns a deep copy so callers never share comment or tag storage
// with the repository.
func (n Note) Clone() Note {
	out := n
	out.Tags = slices.Clone(n.Tags)
	if n.Comments != nil {
		out.Comments = make([]Comment, len(n.Comments))
		for i, c := range n.Comments {
			out.Comments[i] = c.Clone()
		}
	}
	return out
}

// Comment is a top-level entry in a note's thread.
type Comment struct {
	ID        int64   `json:"id" yaml:"id"`
	User      string  `json:"user" yaml:"user"`
	Text      string  `json:"text" yaml:"text"`
	Replies   []Reply `json:"replies" yaml:"replies"`
	Timestamp string  `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// Clone returns a deep copy of the comment.
func (c Comment) Clone() Comment {
	out := c
	out.Replies = slices.Clone(c.Replies)
	return out
}

// Reply answers a comment. Replies never hold replies of their own.
type Reply struct {
	ID        int64  `json:"id" yaml:"id"`
	User      string `json:"user" yaml:"user"`
	Text      string `json:"text" yaml:"text"`
	Timestamp string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// User is the logged-in identity held by the session slot.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FilterOptions lists the selectable values of every filter dimension.
type FilterOptions struct {
	Subjects    []string `json:"subjects" yaml:"subjects"`
	Courses     []string `json:"courses" yaml:"courses"`
	Authors     []string `json:"authors" yaml:"authors"`
	Ratings     []string `json:"ratings" yaml:"ratings"`
	UploadDates []string `json:"uploadDates" yaml:"uploadDates"`
	FileTypes   []string `json:"fileTypes" yaml:"fileTypes"`
}
