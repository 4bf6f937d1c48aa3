package http

import (
	"time"

	"github.com/example/church-registry/internal/persistence"
)

func formatTimestamp(ts persistence.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339Nano)
}

func formatTimestampPtr(ts *persistence.Timestamp) *string {
	if ts == nil || ts.IsZero() {
		return nil
	}
	formatted := formatTimestamp(*ts)
	return &formatted
}
