// Package snapshot defines the persisted projection of the auth session:
// the minimal slice of state that survives a process restart. The codec is
// an explicit serialization boundary — nothing outside this package decides
// what is persisted.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/eduline/eduline-client/internal/client/models"
)

// Key is the single namespaced metadata key holding the snapshot.
const Key = "eduline/auth_snapshot"

// Snapshot is what survives a restart: the last known identity and the
// bearer token to attach optimistically to the first request. It is written
// only after successful login/signup and removed on logout.
type Snapshot struct {
	User  *models.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

// Encode serializes the snapshot for the durable store.
func Encode(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a stored blob. A blob that does not match the documented
// schema is an error, never silently papered over.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s, nil
}
