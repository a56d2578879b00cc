package library

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/papyrus/internal/domain"
)

// MaxNameLength is the longest library name accepted at transport boundaries.
const MaxNameLength = 256

// Name validation errors. Both match domain.ErrInvalidInput.
var (
	ErrNameRequired = fmt.Errorf("library name is required: %w", domain.ErrInvalidInput)
	ErrNameTooLong  = fmt.Errorf("library name too long (max %d chars): %w", MaxNameLength, domain.ErrInvalidInput)
)

// ValidateName checks a display name supplied by a caller. Services accept any
// name; every transport runs this first.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// Library is a named, ordered set of paper ids (immutable value object).
// It references papers by id only; ids that no longer resolve are tolerated.
type Library struct {
	id        string
	name      string
	paperIDs  []string
	createdAt time.Time
}

// New creates an empty Library. The name is not validated.
func New(id, name string, createdAt time.Time) Library {
	return Library{id: id, name: name, paperIDs: []string{}, createdAt: createdAt}
}

// Reconstruct creates a Library without validation (storage hydration).
// Duplicate ids are collapsed, keeping the first occurrence.
func Reconstruct(id, name string, paperIDs []string, createdAt time.Time) Library {
	l := New(id, name, createdAt)
	for _, pid := range paperIDs {
		l, _ = l.WithPaper(pid)
	}
	return l
}

// ID returns the library identifier.
func (l Library) ID() string { return l.id }

// Name returns the display name.
func (l Library) Name() string { return l.name }

// PaperIDs returns a copy of the ordered paper ids.
func (l Library) PaperIDs() []string { return slices.Clone(l.paperIDs) }

// Len returns the number of paper ids.
func (l Library) Len() int { return len(l.paperIDs) }

// CreatedAt returns the creation time.
func (l Library) CreatedAt() time.Time { return l.createdAt }

// Contains reports whether paperID is in the library.
func (l Library) Contains(paperID string) bool {
	return slices.Contains(l.paperIDs, paperID)
}

// WithPaper returns a copy with paperID appended. If the id is already present
// the library is returned unchanged and added is false.
func (l Library) WithPaper(paperID string) (lib Library, added bool) {
	if l.Contains(paperID) {
		return l, false
	}
	next := l
	next.paperIDs = append(slices.Clone(l.paperIDs), paperID)
	return next, true
}

// WithName returns a copy with a new display name.
func (l Library) WithName(name string) Library {
	next := l
	next.name = name
	next.paperIDs = slices.Clone(l.paperIDs)
	return next
}
