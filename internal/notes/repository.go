// Package notes holds the in-memory note collection and the only operations
// allowed to mutate it.
package notes

import (
	"fmt"
	"sync"
	"time"

	"github.com/starford/noteshub/internal/apperr"
	"github.com/starford/noteshub/internal/idgen"
	"github.com/starford/noteshub/internal/models"
	"github.com/starford/noteshub/internal/thread"
)

// TimestampLayout formats comment and reply timestamps.
const TimestampLayout = time.DateTime

// Repository is the application's note store. Every call touches at most one
// note; nothing is transactional across notes. Returned notes are copies.
type Repository struct {
	mu    sync.RWMutex
	notes []models.Note
	ids   *idgen.Generator
	now   func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the clock used for comment timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// New creates a repository seeded with a copy of seed. The id generator
// starts above every seeded id (and every nested comment id).
func New(seed []models.Note, opts ...Option) *Repository {
	r := &Repository{
		notes: cloneAll(seed),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.ids = idgen.New(maxID(r.notes))
	return r
}

// List returns the whole collection in insertion order.
func (r *Repository) List() []models.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(r.notes)
}

// Len returns the number of notes.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notes)
}

// ReplaceAll swaps the entire collection. Duplicate ids are not checked.
func (r *Repository) ReplaceAll(notes []models.Note) {
	cp := cloneAll(notes)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = cp
}

// Append adds a note to the end of the collection. The id must be unused.
func (r *Repository) Append(n models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(n.ID) >= 0 {
		return fmt.Errorf("note %d: %w", n.ID, apperr.ErrAlreadyExists)
	}
	r.notes = append(r.notes, n.Clone())
	return nil
}

// FindByID returns the note with the given id or apperr.ErrNotFound.
func (r *Repository) FindByID(id int64) (models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return models.Note{}, fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	return r.notes[i].Clone(), nil
}

// ToggleLike flips the liked flag and moves the like count by one in the same
// direction. Unknown ids are ignored; the boolean reports whether a note
// was changed.
func (r *Repository) ToggleLike(id int64) (models.Note, bool) {
	return r.mutate(id, func(n *models.Note) {
		if n.Liked {
			n.Likes--
		} else {
			n.Likes++
		}
		n.Liked = !n.Liked
	})
}

// IncrementDownload adds one to the download count. Unknown ids are ignored.
func (r *Repository) IncrementDownload(id int64) (models.Note, bool) {
	return r.mutate(id, func(n *models.Note) {
		n.Downloads++
	})
}

// NextID reserves a fresh note id.
func (r *Repository) NextID() int64 {
	return r.ids.Next()
}

// AddComment appends a comment to note id's thread.
func (r *Repository) AddComment(id int64, author, text string) (models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return models.Note{}, fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	updated, err := thread.AddComment(r.notes[i], author, text, r.ids.Next(), r.timestamp())
	if err != nil {
		return r.notes[i].Clone(), err
	}
	r.notes[i] = updated
	return updated.Clone(), nil
}

// AddReply appends a reply under commentID in note id's thread. An unknown
// comment leaves the note untouched; the boolean reports whether a reply was
// added.
func (r *Repository) AddReply(id, commentID int64, author, text string) (models.Note, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return models.Note{}, false, fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	updated, ok, err := thread.AddReply(r.notes[i], commentID, author, text, r.ids.Next(), r.timestamp())
	if err != nil || !ok {
		return r.notes[i].Clone(), false, err
	}
	r.notes[i] = updated
	return updated.Clone(), true, nil
}

func (r *Repository) mutate(id int64, fn func(*models.Note)) (models.Note, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return models.Note{}, false
	}
	fn(&r.notes[i])
	return r.notes[i].Clone(), true
}

// indexOf must be called with mu held.
func (r *Repository) indexOf(id int64) int {
	for i := range r.notes {
		if r.notes[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Repository) timestamp() string {
	return r.now().Format(TimestampLayout)
}

func cloneAll(in []models.Note) []models.Note {
	out := make([]models.Note, len(in))
	for i, n := range in {
		out[i] = n.Clone()
	}
	return out
}

func maxID(notes []models.Note) int64 {
	var m int64
	for _, n := range notes {
		m = max(m, n.ID)
		for _, c := range n.Comments {
			m = max(m, c.ID)
			for _, rp := range c.Replies {
				m = max(m, rp.ID)
			}
		}
	}
	return m
}
