package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"fms-backend/internal/shared/telemetry"
)

// PGStore keeps drafts in the assessment_drafts table. Used when the deploy
// has a shared database and drafts need to survive across instances.
type PGStore struct {
	DB *sql.DB
}

func (s *PGStore) Load(ctx context.Context, studentID string) (Draft, error) {
	const query = `
SELECT payload
FROM assessment_drafts
WHERE draft_key = $1
LIMIT 1`
	var raw []byte
	err := s.DB.QueryRowContext(ctx, query, DraftKey(studentID)).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewDraft(), nil
		}
		return Draft{}, err
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

func (s *PGStore) Save(ctx context.Context, studentID string, d Draft) error {
	raw, err := json.Marshal(Normalize(d))
	if err != nil {
		return err
	}
	const query = `
INSERT INTO assessment_drafts (draft_key, student_id, payload, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (draft_key) DO UPDATE SET
  payload = EXCLUDED.payload,
  updated_at = now()`
	_, err = s.DB.ExecContext(ctx, query, DraftKey(studentID), studentID, raw)
	return err
}

func (s *PGStore) Discard(ctx context.Context, studentID string) error {
	const query = `DELETE FROM assessment_drafts WHERE draft_key = $1`
	_, err := s.DB.ExecContext(ctx, query, DraftKey(studentID))
	return err
}
