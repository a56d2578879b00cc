package library

import (
	"encoding/json"
	"fmt"
	"time"

	domlib "github.com/kailas-cloud/papyrus/internal/domain/library"
)

// libraryToHash converts a domain Library to a map for HSET.
func libraryToHash(l domlib.Library) (map[string]string, error) {
	idsJSON, err := json.Marshal(l.PaperIDs())
	if err != nil {
		return nil, fmt.Errorf("marshal paper ids: %w", err)
	}
	return map[string]string{
		"id":             l.ID(),
		"name":           l.Name(),
		"paper_ids_json": string(idsJSON),
		"created_at":     l.CreatedAt().UTC().Format(time.RFC3339Nano),
	}, nil
}

// libraryFromHash hydrates a domain Library from an HGETALL result map.
func libraryFromHash(m map[string]string) (domlib.Library, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, m["created_at"])
	if err != nil {
		return domlib.Library{}, fmt.Errorf("invalid created_at: %w", err)
	}

	var ids []string
	if raw := m["paper_ids_json"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return domlib.Library{}, fmt.Errorf("unmarshal paper ids: %w", err)
		}
	}

	return domlib.Reconstruct(m["id"], m["name"], ids, createdAt), nil
}
