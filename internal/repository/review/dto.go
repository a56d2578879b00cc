package review

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/papyrus/internal/domain"
	domreview "github.com/kailas-cloud/papyrus/internal/domain/review"
)

// idField doubles as the create guard.
const idField = "id"

func reviewToHash(r domreview.LiteratureReview) (map[string]string, error) {
	idsJSON, err := json.Marshal(r.PaperIDs())
	if err != nil {
		return nil, fmt.Errorf("marshal paper ids: %w", err)
	}
	return map[string]string{
		idField:          r.ID(),
		"kind":           string(r.Kind()),
		"title":          r.Title(),
		"content":        r.Content(),
		"language":       string(r.Language()),
		"paper_ids_json": string(idsJSON),
		"created_at":     r.CreatedAt().UTC().Format(time.RFC3339Nano),
	}, nil
}

func reviewFromHash(m map[string]string) (domreview.LiteratureReview, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, m["created_at"])
	if err != nil {
		return domreview.LiteratureReview{}, fmt.Errorf("invalid created_at: %w", err)
	}

	var ids []string
	if raw := m["paper_ids_json"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return domreview.LiteratureReview{}, fmt.Errorf("unmarshal paper ids: %w", err)
		}
	}

	return domreview.Reconstruct(
		m[idField],
		domreview.Kind(m["kind"]),
		m["title"],
		m["content"],
		domain.Language(m["language"]),
		ids,
		createdAt,
	), nil
}
