// Package invalidation translates domain mutations into cache purges and
// coordinates them across deployments.
//
// The Coordinator owns the mutation-to-pattern table: every mutation type
// maps to an exact key (when the id is known) plus the namespace patterns
// that may now be stale. Purges always apply to the local store; when a
// shared Redis tier or a peer deployment is configured they are purged too,
// best-effort. Under-invalidation causes stale admin views, over-invalidation
// only costs a refetch, so the table errs on the wide side.
//
// Cross-process coordination is advisory: a peer notify has a bounded timeout
// and its failure is logged and swallowed, never surfaced to the admin action
// that triggered it. A lagging peer self-corrects when the entry's TTL
// elapses.
package invalidation

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Type identifies which cache namespace a cross-process invalidation targets.
type Type string

const (
	TypeProduct  Type = "product"
	TypeCategory Type = "category"
	TypeAll      Type = "all"
)

// ErrUnknownType is returned when a request names a cache type outside the
// wire protocol. No partial invalidation is performed.
var ErrUnknownType = errors.New("invalid cache type")

// ID is an entity identifier on the wire. Peers may send it as a JSON string
// or a number; both decode to the string form. Absent and null mean "no
// specific entity", i.e. purge the whole namespace.
type ID string

// UnmarshalJSON accepts "7", 7 and null.
func (i *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*i = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*i = ID(n.String())
	return nil
}

// Request is the JSON body of POST /api/cache/invalidate.
type Request struct {
	Type   Type   `json:"type"`
	ID     ID     `json:"id,omitempty"`
	APIKey string `json:"apiKey"`
}

// Response is the JSON body returned by the invalidation endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
