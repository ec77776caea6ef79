package thread

import (
	"errors"
	"fmt"

	"github.com/starford/noteshub/internal/apperr"
	"github.com/starford/noteshub/internal/models"
)

// State is the data state of a note detail view.
type State string

const (
	StateLoading  State = "loading"
	StateFound    State = "found"
	StateNotFound State = "not-found"
)

// Tab is the panel shown by a found detail view. It never affects the note.
type Tab string

const (
	TabDetails  Tab = "details"
	TabComments Tab = "comments"
	TabPreview  Tab = "preview"
)

// ParseTab maps a tab name to a Tab. The empty string selects TabDetails.
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case "", TabDetails:
		return TabDetails, nil
	case TabComments, TabPreview:
		return Tab(s), nil
	}
	return "", apperr.Invalid("tab", fmt.Sprintf("unknown tab %q", s))
}

// Finder resolves a note by id.
type Finder interface {
	FindByID(id int64) (models.Note, error)
}

// View is the state of one note detail view.
type View struct {
	State State       `json:"state"`
	Tab   Tab         `json:"tab,omitempty"`
	Note  models.Note `json:"note"`
}

// OpenView moves a new view out of loading: to found with the details tab
// when the note exists, to not-found when it does not.
func OpenView(f Finder, id int64) (*View, error) {
	v := &View{State: StateLoading}
	note, err := f.FindByID(id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			v.State = StateNotFound
			return v, nil
		}
		return nil, err
	}
	v.State = StateFound
	v.Tab = TabDetails
	v.Note = note
	return v, nil
}

// SetTab switches the visible panel of a found view.
func (v *View) SetTab(t Tab) error {
	if v.State != StateFound {
		return fmt.Errorf("view is %s: %w", v.State, apperr.ErrConflict)
	}
	v.Tab = t
	return nil
}
