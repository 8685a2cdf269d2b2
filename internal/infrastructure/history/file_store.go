package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/doeshing/mastopoll/internal/domain"
	"github.com/doeshing/mastopoll/internal/ports"
)

// FileStore keeps history as one pretty-printed JSON document.
// Writes go to a temp file in the same directory and are renamed into place,
// so a crash mid-write leaves the previous document intact.
type FileStore struct {
	fs      afero.Fs
	path    string
	mu      sync.Mutex
	loaded  bool
	records []domain.HistoryRecord
}

// NewFileStore creates a store backed by the OS filesystem.
func NewFileStore(path string) *FileStore {
	return NewFileStoreFs(afero.NewOsFs(), path)
}

// NewFileStoreFs creates a store on an arbitrary afero filesystem.
func NewFileStoreFs(fsys afero.Fs, path string) *FileStore {
	return &FileStore{fs: fsys, path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Load implements ports.HistoryStore. A missing file is an empty history.
func (f *FileStore) Load(context.Context) ([]domain.HistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	records, err := f.read()
	if err != nil {
		return nil, err
	}
	f.records = records
	f.loaded = true
	return cloneRecords(records), nil
}

// Append implements ports.HistoryStore.
func (f *FileStore) Append(_ context.Context, record domain.HistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.loaded {
		records, err := f.read()
		if err != nil {
			return err
		}
		f.records = records
		f.loaded = true
	}
	next := append(cloneRecords(f.records), record.Clone())
	if err := f.write(next); err != nil {
		return err
	}
	f.records = next
	return nil
}

func (f *FileStore) read() ([]domain.HistoryRecord, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return Decode(data)
}

func (f *FileStore) write(records []domain.HistoryRecord) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := f.fs.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return err
	}
	tmp, err := afero.TempFile(f.fs, dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = f.fs.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := f.fs.Chmod(tmpName, domain.FilePermissions); err != nil && !errors.Is(err, os.ErrNotExist) {
		cleanup()
		return err
	}
	if err := f.fs.Rename(tmpName, f.path); err != nil {
		cleanup()
		return err
	}
	return nil
}

// Encode renders records as the history document.
func Encode(records []domain.HistoryRecord) ([]byte, error) {
	if records == nil {
		records = []domain.HistoryRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(domain.HistoryDocument{Responses: records}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a history document.
func Decode(data []byte) ([]domain.HistoryRecord, error) {
	var doc domain.HistoryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return doc.Responses, nil
}

func cloneRecords(records []domain.HistoryRecord) []domain.HistoryRecord {
	if records == nil {
		return nil
	}
	out := make([]domain.HistoryRecord, len(records))
	for i, rec := range records {
		out[i] = rec.Clone()
	}
	return out
}

var _ ports.HistoryStore = (*FileStore)(nil)
