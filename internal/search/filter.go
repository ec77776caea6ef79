// Package search narrows a note collection by free-text query and by the
// structured filter dimensions of the browser view.
package search

import (
	"net/url"
	"strings"
	"time"

	"github.com/starford/noteshub/internal/apperr"
	"github.com/starford/noteshub/internal/models"
)

// All is the option that places no constraint on a dimension.
const All = "All"

// Dimension names one independently selectable filter.
type Dimension string

const (
	Subject    Dimension = "subject"
	Course     Dimension = "course"
	Author     Dimension = "author"
	Rating     Dimension = "rating"
	UploadDate Dimension = "uploadDate"
	FileType   Dimension = "fileType"
)

// Dimensions lists every dimension in display order.
var Dimensions = []Dimension{Subject, Course, Author, Rating, UploadDate, FileType}

// Relative upload-date windows.
const (
	LastWeek        = "Last Week"
	LastMonth       = "Last Month"
	LastThreeMonths = "Last 3 Months"
)

// Selection maps each dimension to its selected option. Missing entries
// behave like All.
type Selection map[Dimension]string

// DefaultSelection returns a selection with every dimension set to All.
func DefaultSelection() Selection {
	s := make(Selection, len(Dimensions))
	for _, d := range Dimensions {
		s[d] = All
	}
	return s
}

// Set selects value for dim.
func (s Selection) Set(dim Dimension, value string) error {
	if !validDimension(dim) {
		return apperr.Invalid(string(dim), "unknown filter")
	}
	if value == "" {
		value = All
	}
	if dim == Rating && value != All {
		if _, ok := minRating(value); !ok {
			return apperr.Invalid(string(dim), "rating filter must look like \"4+ Stars\"")
		}
	}
	s[dim] = value
	return nil
}

// SelectionFromQuery builds a selection from URL query parameters named
// after the dimensions. Absent parameters select All.
func SelectionFromQuery(q url.Values) (Selection, error) {
	s := DefaultSelection()
	for _, d := range Dimensions {
		if v := q.Get(string(d)); v != "" {
			if err := s.Set(d, v); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// Filter returns the notes of all that match query and every constrained
// dimension of sel, in their original order. now anchors the relative
// upload-date windows.
func Filter(all []models.Note, query string, sel Selection, now time.Time) []models.Note {
	preds := predicates(query, sel, now)
	out := make([]models.Note, 0, len(all))
	for _, n := range all {
		if matchAll(n, preds) {
			out = append(out, n)
		}
	}
	return out
}

type predicate func(models.Note) bool

func matchAll(n models.Note, preds []predicate) bool {
	for _, p := range preds {
		if !p(n) {
			return false
		}
	}
	return true
}

func predicates(query string, sel Selection, now time.Time) []predicate {
	var preds []predicate
	if query != "" {
		q := strings.ToLower(query)
		preds = append(preds, func(n models.Note) bool {
			return containsFold(n.Title, q) ||
				containsFold(n.Description, q) ||
				containsFold(n.Subject, q) ||
				containsFold(n.Course, q)
		})
	}
	for _, d := range Dimensions {
		v, ok := sel[d]
		if !ok || v == All || v == "" {
			continue
		}
		preds = append(preds, dimensionPredicate(d, v, now))
	}
	return preds
}

func dimensionPredicate(d Dimension, v string, now time.Time) predicate {
	switch d {
	case Subject:
		return func(n models.Note) bool { return n.Subject == v }
	case Course:
		return func(n models.Note) bool { return n.Course == v }
	case Author:
		return func(n models.Note) bool { return n.Author == v }
	case FileType:
		return func(n models.Note) bool { return string(n.FileType) == v }
	case Rating:
		floor, ok := minRating(v)
		if !ok {
			return func(models.Note) bool { return false }
		}
		return func(n models.Note) bool { return n.Rating >= floor }
	case UploadDate:
		if cutoff, ok := windowStart(v, now); ok {
			return func(n models.Note) bool {
				up := n.Uploaded()
				return !up.IsZero() && !up.Before(cutoff)
			}
		}
		return func(n models.Note) bool { return n.UploadDate == v }
	}
	return func(models.Note) bool { return true }
}

// minRating reads N from an "N+ Stars" option.
func minRating(v string) (float64, bool) {
	if v == "" || v[0] < '0' || v[0] > '9' {
		return 0, false
	}
	return float64(v[0] - '0'), true
}

// windowStart returns the first calendar day inside a relative window.
func windowStart(v string, now time.Time) (time.Time, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch v {
	case LastWeek:
		return today.AddDate(0, 0, -7), true
	case LastMonth:
		return today.AddDate(0, -1, 0), true
	case LastThreeMonths:
		return today.AddDate(0, -3, 0), true
	}
	return time.Time{}, false
}

func containsFold(field, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(field), lowerQuery)
}

func validDimension(d Dimension) bool {
	for _, x := range Dimensions {
		if x == d {
			return true
		}
	}
	return false
}
