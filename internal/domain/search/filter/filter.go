package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxTextLength is the maximum length of the author and journal filter texts.
const MaxTextLength = 256

// YearRange is a user-entered publication year range. Bounds are kept as the raw
// strings the user typed; only a range with both bounds parsable is applied.
type YearRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Bounds returns the integer bounds when both are present and parse as integers.
func (r YearRange) Bounds() (start, end int, ok bool) {
	s, errS := strconv.Atoi(strings.TrimSpace(r.Start))
	e, errE := strconv.Atoi(strings.TrimSpace(r.End))
	if errS != nil || errE != nil {
		return 0, 0, false
	}
	return s, e, true
}

// Options are the declarative result filters.
type Options struct {
	YearRange YearRange `json:"year_range"`
	Author    string    `json:"author"`
	Journal   string    `json:"journal"`
	// HasFullText is collected from the user but has no backing attribute on a
	// paper yet, so it never narrows results.
	HasFullText bool `json:"has_full_text"`
}

// IsEmpty reports whether no narrowing filter is set.
func (o Options) IsEmpty() bool {
	_, _, hasRange := o.YearRange.Bounds()
	return o.Author == "" && o.Journal == "" && !hasRange
}

// Validate checks text lengths.
func (o Options) Validate() error {
	if len(o.Author) > MaxTextLength {
		return fmt.Errorf("author filter too long (max %d chars)", MaxTextLength)
	}
	if len(o.Journal) > MaxTextLength {
		return fmt.Errorf("journal filter too long (max %d chars)", MaxTextLength)
	}
	return nil
}

// Update is a single typed change to Options. The set of variants is closed.
type Update interface {
	apply(Options) Options
}

// SetAuthor replaces the author substring.
type SetAuthor struct{ Value string }

// SetJournal replaces the journal substring.
type SetJournal struct{ Value string }

// SetYearStart replaces the lower year bound, keeping the upper one.
type SetYearStart struct{ Value string }

// SetYearEnd replaces the upper year bound, keeping the lower one.
type SetYearEnd struct{ Value string }

// SetHasFullText toggles the full-text flag.
type SetHasFullText struct{ Value bool }

// Reset clears every filter.
type Reset struct{}

func (u SetAuthor) apply(o Options) Options {
	o.Author = u.Value
	return o
}

func (u SetJournal) apply(o Options) Options {
	o.Journal = u.Value
	return o
}

func (u SetYearStart) apply(o Options) Options {
	o.YearRange.Start = u.Value
	return o
}

func (u SetYearEnd) apply(o Options) Options {
	o.YearRange.End = u.Value
	return o
}

func (u SetHasFullText) apply(o Options) Options {
	o.HasFullText = u.Value
	return o
}

func (Reset) apply(Options) Options { return Options{} }

// Reduce applies updates to o in order and returns the resulting Options.
// o itself is left untouched.
func Reduce(o Options, updates ...Update) Options {
	for _, u := range updates {
		if u == nil {
			continue
		}
		o = u.apply(o)
	}
	return o
}

// YearSelector is the exact-year override: either all years or a single year.
type YearSelector struct {
	year int
	set  bool
}

// AllYears selects every year.
func AllYears() YearSelector { return YearSelector{} }

// ExactYear selects a single publication year.
func ExactYear(year int) YearSelector { return YearSelector{year: year, set: true} }

// ParseYearSelector parses "all" (or empty) and decimal years.
func ParseYearSelector(s string) (YearSelector, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return AllYears(), nil
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return YearSelector{}, fmt.Errorf("invalid year %q: must be \"all\" or an integer", s)
	}
	return ExactYear(y), nil
}

// Year returns the selected year and whether a specific year is selected.
func (y YearSelector) Year() (int, bool) { return y.year, y.set }

// IsAll reports whether every year is selected.
func (y YearSelector) IsAll() bool { return !y.set }

// String renders the selector in its parseable form.
func (y YearSelector) String() string {
	if !y.set {
		return "all"
	}
	return strconv.Itoa(y.year)
}
