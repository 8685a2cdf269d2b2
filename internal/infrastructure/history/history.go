// Package history implements the append-only history of published polls.
package history

import (
	"context"
	"io"

	"github.com/doeshing/mastopoll/internal/domain"
	"github.com/doeshing/mastopoll/internal/ports"
)

// Open returns the store selected by settings.
func Open(settings domain.HistorySettings) (ports.HistoryStore, error) {
	switch settings.Backend {
	case domain.HistoryBackendSQLite:
		return OpenSQLiteStore(settings.Path)
	default:
		return NewFileStore(settings.Path), nil
	}
}

// Export writes every record of store to w as a history document.
func Export(ctx context.Context, store ports.HistoryStore, w io.Writer) (int, error) {
	records, err := store.Load(ctx)
	if err != nil {
		return 0, err
	}
	data, err := Encode(records)
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(data); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Import appends records whose question is not already present, in order.
// Returns how many were added.
func Import(ctx context.Context, store ports.HistoryStore, records []domain.HistoryRecord) (int, error) {
	existing, err := store.Load(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		seen[rec.Question] = struct{}{}
	}
	added := 0
	for _, rec := range records {
		if _, ok := seen[rec.Question]; ok {
			continue
		}
		if err := store.Append(ctx, rec); err != nil {
			return added, err
		}
		seen[rec.Question] = struct{}{}
		added++
	}
	return added, nil
}

// Close releases store resources when the backend holds any.
func Close(store ports.HistoryStore) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
