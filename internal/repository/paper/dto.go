package paper

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/papyrus/internal/domain"
	dompaper "github.com/kailas-cloud/papyrus/internal/domain/paper"
)

// paperToHash converts a domain Paper to a map for HSET.
func paperToHash(p dompaper.Paper) (map[string]string, error) {
	authorsJSON, err := json.Marshal(p.Authors())
	if err != nil {
		return nil, fmt.Errorf("marshal authors: %w", err)
	}
	m := map[string]string{
		"id":           p.ID(),
		"title_en":     p.Title().EN,
		"title_fa":     p.Title().FA,
		"authors_json": string(authorsJSON),
		"abstract_en":  p.Abstract().EN,
		"abstract_fa":  p.Abstract().FA,
		"year":         strconv.Itoa(p.Year()),
		"doi":          p.DOI(),
		"url":          p.URL(),
		"journal":      p.Journal(),
		"summary_en":   p.AISummary().EN,
		"summary_fa":   p.AISummary().FA,
		"date_added":   "",
	}
	if !p.DateAdded().IsZero() {
		m["date_added"] = p.DateAdded().UTC().Format(time.RFC3339Nano)
	}
	return m, nil
}

// paperFromHash hydrates a domain Paper from an HGETALL result map.
func paperFromHash(m map[string]string) (dompaper.Paper, error) {
	var authors []string
	if raw := m["authors_json"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &authors); err != nil {
			return dompaper.Paper{}, fmt.Errorf("unmarshal authors: %w", err)
		}
	}

	year, err := strconv.Atoi(m["year"])
	if err != nil {
		return dompaper.Paper{}, fmt.Errorf("invalid year: %w", err)
	}

	var added time.Time
	if raw := m["date_added"]; raw != "" {
		added, err = time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return dompaper.Paper{}, fmt.Errorf("invalid date_added: %w", err)
		}
	}

	return dompaper.Reconstruct(dompaper.Params{
		ID:        m["id"],
		Title:     domain.Text{EN: m["title_en"], FA: m["title_fa"]},
		Authors:   authors,
		Abstract:  domain.Text{EN: m["abstract_en"], FA: m["abstract_fa"]},
		Year:      year,
		DOI:       m["doi"],
		URL:       m["url"],
		Journal:   m["journal"],
		AISummary: domain.Text{EN: m["summary_en"], FA: m["summary_fa"]},
		DateAdded: added,
	}), nil
}
