package order

import (
	"fmt"
	"strings"
)

// Order is the display ordering of search results.
type Order string

// Sort order constants.
const (
	// Relevance keeps the order the directory returned.
	Relevance Order = "relevance"
	// Newest sorts by publication year, descending.
	Newest Order = "newest"
	// Oldest sorts by publication year, ascending.
	Oldest Order = "oldest"
)

// IsValid checks if the order is one of the supported values.
func (o Order) IsValid() bool {
	return o == Relevance || o == Newest || o == Oldest
}

// Parse normalizes an order name. Empty defaults to Relevance.
func Parse(s string) (Order, error) {
	o := Order(strings.ToLower(strings.TrimSpace(s)))
	if o == "" {
		return Relevance, nil
	}
	if !o.IsValid() {
		return "", fmt.Errorf("invalid sort order: %q", s)
	}
	return o, nil
}
