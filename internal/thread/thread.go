// Package thread implements the two-level comment/reply model attached to a
// note. Threads are append-only: nothing here edits or removes an entry.
package thread

import (
	"strings"

	"github.com/starford/noteshub/internal/apperr"
	"github.com/starford/noteshub/internal/models"
)

// AnonymousAuthor is the display name used when no session exists.
const AnonymousAuthor = "Anonymous"

// User-facing rejections.
var (
	ErrEmptyComment = apperr.Invalid("text", "Please enter a comment")
	ErrEmptyReply   = apperr.Invalid("text", "Please enter a reply")
)

// Author returns the display name to attribute new entries to.
func Author(u *models.User) string {
	if u == nil || u.Name == "" {
		return AnonymousAuthor
	}
	return u.Name
}

// AddComment appends a comment to the end of note's thread and returns the
// updated note. Blank text is rejected and note is returned unchanged.
func AddComment(note models.Note, author, text string, id int64, timestamp string) (models.Note, error) {
	if strings.TrimSpace(text) == "" {
		return note, ErrEmptyComment
	}
	out := note.Clone()
	out.Comments = append(out.Comments, models.Comment{
		ID:        id,
		User:      author,
		Text:      text,
		Replies:   []models.Reply{},
		Timestamp: timestamp,
	})
	return out, nil
}

// AddReply appends a reply to the comment identified by commentID. Blank text
// is rejected; an unknown commentID leaves the note unchanged and is not an
// error. The boolean reports whether a reply was appended.
func AddReply(note models.Note, commentID int64, author, text string, id int64, timestamp string) (models.Note, bool, error) {
	if strings.TrimSpace(text) == "" {
		return note, false, ErrEmptyReply
	}
	idx := -1
	for i, c := range note.Comments {
		if c.ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return note, false, nil
	}
	out := note.Clone()
	c := &out.Comments[idx]
	c.Replies = append(c.Replies, models.Reply{
		ID:        id,
		User:      author,
		Text:      text,
		Timestamp: timestamp,
	})
	return out, true, nil
}
