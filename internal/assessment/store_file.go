package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"fms-backend/internal/shared/telemetry"
	"fms-backend/internal/shared/util"
)

// FileStore persists one draft file per student under baseDir. Draft files
// survive process restarts, which is what lets an interrupted assessment
// session resume where it left off.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a file-backed draft store rooted at baseDir.
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

func (s *FileStore) Load(ctx context.Context, studentID string) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	raw, err := os.ReadFile(s.path(studentID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewDraft(), nil
		}
		return Draft{}, fmt.Errorf("read draft: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		telemetry.Warn("draft.corrupt", map[string]any{
			"student_id": studentID,
			"error":      err.Error(),
		})
		return NewDraft(), nil
	}
	return Normalize(d), nil
}

func (s *FileStore) Save(ctx context.Context, studentID string, d Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(Normalize(d))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	// Write-then-rename so a crash mid-save never leaves a corrupt draft.
	path := s.path(studentID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename draft: %w", err)
	}
	return nil
}

func (s *FileStore) Discard(ctx context.Context, studentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path(studentID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove draft: %w", err)
	}
	return nil
}

func (s *FileStore) path(studentID string) string {
	return filepath.Join(s.baseDir, util.HashStudentKey(DraftKey(studentID))+".json")
}
