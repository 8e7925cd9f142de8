package assessment

import (
	"context"
	"encoding/json"
	"sync"

	"fms-backend/internal/shared/telemetry"
)

// MemoryStore keeps serialized drafts in process memory. Used by tests and
// dev mode without a database.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, studentID string) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	s.mu.RLock()
	raw, ok := s.drafts[DraftKey(studentID)]
	s.mu.RUnlock()
	if !ok {
		return NewDraft(), nil
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

func (s *MemoryStore) Save(ctx context.Context, studentID string, d Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(Normalize(d))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[DraftKey(studentID)] = raw
	return nil
}

func (s *MemoryStore) Discard(ctx context.Context, studentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, DraftKey(studentID))
	return nil
}
