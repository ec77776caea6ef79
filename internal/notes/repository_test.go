package notes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/noteshub/internal/apperr"
	"github.com/starford/noteshub/internal/models"
	"github.com/starford/noteshub/internal/seed"
)

func seededRepo(t *testing.T) *Repository {
	t.Helper()
	ds, err := seed.Default()
	require.NoError(t, err)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return New(ds.Notes, WithClock(func() time.Time { return fixed }))
}

func TestToggleLikeRoundTrip(t *testing.T) {
	r := seededRepo(t)

	n, ok := r.ToggleLike(1)
	require.True(t, ok)
	assert.Equal(t, 124, n.Likes)
	assert.True(t, n.Liked)

	n, ok = r.ToggleLike(1)
	require.True(t, ok)
	assert.Equal(t, 123, n.Likes)
	assert.False(t, n.Liked)
}

func TestToggleLikeIsInvolution(t *testing.T) {
	r := seededRepo(t)
	for _, before := range r.List() {
		r.ToggleLike(before.ID)
		r.ToggleLike(before.ID)
		after, err := r.FindByID(before.ID)
		require.NoError(t, err)
		assert.Equal(t, before.Likes, after.Likes)
		assert.Equal(t, before.Liked, after.Liked)
	}
}

func TestToggleLikeUnknownIsNoop(t *testing.T) {
	r := seededRepo(t)
	before := r.List()
	_, ok := r.ToggleLike(404)
	assert.False(t, ok)
	assert.Equal(t, before, r.List())
}

func TestIncrementDownload(t *testing.T) {
	r := seededRepo(t)
	for _, k := range []int{0, 1, 7} {
		before, err := r.FindByID(2)
		require.NoError(t, err)
		for range k {
			r.IncrementDownload(2)
		}
		after, err := r.FindByID(2)
		require.NoError(t, err)
		assert.Equal(t, before.Downloads+k, after.Downloads)
	}

	_, ok := r.IncrementDownload(404)
	assert.False(t, ok)
}

func TestFindByIDNotFound(t *testing.T) {
	r := seededRepo(t)
	_, err := r.FindByID(99)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListReturnsCopies(t *testing.T) {
	r := seededRepo(t)
	list := r.List()
	list[0].Likes = 0
	list[0].Comments[0].Text = "changed"

	n, err := r.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, 123, n.Likes)
	assert.Equal(t, "Great notes! Very helpful.", n.Comments[0].Text)
}

func TestAppendAndReplaceAll(t *testing.T) {
	r := seededRepo(t)
	id := r.NextID()
	assert.Greater(t, id, int64(3))

	require.NoError(t, r.Append(models.Note{ID: id, Title: "New"}))
	assert.Equal(t, 4, r.Len())
	assert.Equal(t, "New", r.List()[3].Title)

	err := r.Append(models.Note{ID: 1, Title: "Dup"})
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)
	assert.Equal(t, 4, r.Len())

	r.ReplaceAll([]models.Note{{ID: 9}, {ID: 9}})
	assert.Equal(t, 2, r.Len())
}

func TestAddCommentPersists(t *testing.T) {
	r := seededRepo(t)
	n, err := r.AddComment(3, "Demo User", "Loved it")
	require.NoError(t, err)
	require.Len(t, n.Comments, 1)
	assert.Equal(t, "2024-03-01 12:00:00", n.Comments[0].Timestamp)

	stored, err := r.FindByID(3)
	require.NoError(t, err)
	assert.Len(t, stored.Comments, 1)

	_, err = r.AddComment(3, "Demo User", " ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	stored, _ = r.FindByID(3)
	assert.Len(t, stored.Comments, 1)

	_, err = r.AddComment(404, "Demo User", "hi")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAddReply(t *testing.T) {
	r := seededRepo(t)
	n, ok, err := r.AddReply(1, 2, "John Doe", "Will do")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, n.Comments[1].Replies, 1)
	assert.NotEqual(t, int64(1), n.Comments[1].Replies[0].ID)

	before, _ := r.FindByID(1)
	_, ok, err = r.AddReply(1, 999, "John Doe", "lost")
	require.NoError(t, err)
	assert.False(t, ok)
	after, _ := r.FindByID(1)
	assert.Equal(t, before, after)
}
