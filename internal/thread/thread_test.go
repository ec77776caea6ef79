package thread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/noteshub/internal/apperr"
	"github.com/starford/noteshub/internal/models"
)

func sampleNote() models.Note {
	return models.Note{
		ID:    1,
		Title: "Introduction to React",
		Comments: []models.Comment{
			{ID: 1, User: "Alice", Text: "Great notes! Very helpful.", Replies: []models.Reply{
				{ID: 1, User: "John Doe", Text: "Thanks, Alice!"},
			}},
			{ID: 2, User: "Bob", Text: "Could you add more examples?"},
		},
	}
}

func TestAddCommentAppends(t *testing.T) {
	n := sampleNote()
	out, err := AddComment(n, "Demo User", "Nice", 10, "ts")
	require.NoError(t, err)
	require.Len(t, out.Comments, 3)

	last := out.Comments[2]
	assert.Equal(t, int64(10), last.ID)
	assert.Equal(t, "Demo User", last.User)
	assert.Equal(t, "Nice", last.Text)
	assert.Empty(t, last.Replies)
	assert.NotNil(t, last.Replies)

	// Input is not aliased.
	assert.Len(t, n.Comments, 2)
}

func TestAddCommentRejectsBlank(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		n := sampleNote()
		out, err := AddComment(n, "Demo User", text, 10, "")
		require.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, "Please enter a comment", apperr.Message(err))
		assert.Len(t, out.Comments, len(n.Comments))
	}
}

func TestAddReplyAppendsToComment(t *testing.T) {
	n := sampleNote()
	out, ok, err := AddReply(n, 1, "Bob", "Agreed", 11, "")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, out.Comments[0].Replies, 2)
	assert.Equal(t, "Agreed", out.Comments[0].Replies[1].Text)
	assert.Len(t, n.Comments[0].Replies, 1, "input must not be mutated")
	assert.Empty(t, out.Comments[1].Replies)
}

func TestAddReplyUnknownCommentIsNoop(t *testing.T) {
	n := sampleNote()
	out, ok, err := AddReply(n, 999, "Bob", "hello", 11, "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, n, out)
}

func TestAddReplyRejectsBlank(t *testing.T) {
	n := sampleNote()
	out, ok, err := AddReply(n, 1, "Bob", "  ", 11, "")
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Please enter a reply", apperr.Message(err))
	assert.False(t, ok)
	assert.Equal(t, n, out)
}

func TestAuthor(t *testing.T) {
	assert.Equal(t, AnonymousAuthor, Author(nil))
	assert.Equal(t, AnonymousAuthor, Author(&models.User{}))
	assert.Equal(t, "Demo User", Author(&models.User{Name: "Demo User"}))
}
