package assessment

import "context"

// draftKeyPrefix namespaces draft entries; the key format is shared with the
// web client that originally owned these drafts, so it stays stable.
const draftKeyPrefix = "fms_state_"

// DraftKey returns the storage key for a student's draft.
func DraftKey(studentID string) string {
	return draftKeyPrefix + studentID
}

// Store persists in-progress assessment drafts, one live draft per student.
//
// Load returns the schema-default draft on a missing or corrupt entry and
// never fails on content; only infrastructure errors are returned. Save is
// write-through: it is called on every draft mutation. Discard removes the
// entry and is called exactly once, after a submission's success is
// confirmed.
type Store interface {
	Load(ctx context.Context, studentID string) (Draft, error)
	Save(ctx context.Context, studentID string, d Draft) error
	Discard(ctx context.Context, studentID string) error
}
