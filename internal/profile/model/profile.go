package model

import (
	"time"

	"github.com/anthill-platform/profile-service/internal/system/constants"
)

// Document is the JSON payload of a profile. Nesting is arbitrary; access
// rules only ever apply to top-level keys.
type Document = map[string]interface{}

// Merge overlays the given fields onto the existing document's top-level
// keys. Same-named keys are overwritten, untouched keys are preserved. The
// existing map is not modified.
func Merge(existing, fields Document) Document {
	merged := make(Document, len(existing)+len(fields))
	for key, value := range existing {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return merged
}

// Narrow selects the sub-view of the document identified by the path. Only
// the first segment narrows; deeper segments are accepted but ignored, which
// existing callers depend on. An empty path returns the whole document.
func Narrow(doc Document, path []string) interface{} {
	if len(path) == 0 {
		return doc
	}
	return doc[path[0]]
}

// TopLevelKeys returns the top-level field names of the document, timestamp
// keys included; whether a caller may see them is the access check's call.
func TopLevelKeys(doc Document) []string {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	return keys
}

// StripReserved returns a copy of fields without the reserved timestamp
// keys. Callers cannot supply those; the store stamps them.
func StripReserved(fields Document) Document {
	stripped := make(Document, len(fields))
	for key, value := range fields {
		if key == constants.TimeCreatedField || key == constants.TimeUpdatedField {
			continue
		}
		stripped[key] = value
	}
	return stripped
}

// StampTimestamps sets @time_created if absent and always refreshes
// @time_updated. Timestamps are UTC, RFC3339.
func StampTimestamps(doc Document, now time.Time) {
	stamp := now.UTC().Format(time.RFC3339)
	if _, ok := doc[constants.TimeCreatedField]; !ok {
		doc[constants.TimeCreatedField] = stamp
	}
	doc[constants.TimeUpdatedField] = stamp
}
