// Package query is the keyed, de-duplicating cache that pages fetch through.
package query

import (
	"encoding/json"
	"fmt"
)

// Key identifies a query: an ordered tuple of primitives such as
// {"marketSummary", "1d"} or {"portfolioAnalysis", 7}.
type Key []any

// String returns the canonical form of the key. Equal tuples give equal strings.
func (k Key) String() string {
	b, err := json.Marshal([]any(k))
	if err != nil {
		return fmt.Sprintf("%#v", []any(k))
	}
	return string(b)
}
