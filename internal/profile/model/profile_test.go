package model

import (
	"testing"
	"time"

	"github.com/anthill-platform/profile-service/internal/system/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_OverwritesSameNamedKeys(t *testing.T) {
	existing := Document{"level": 5, "name": "Bob"}
	fields := Document{"level": 6}

	merged := Merge(existing, fields)
	assert.Equal(t, 6, merged["level"])
	assert.Equal(t, "Bob", merged["name"])
}

func TestMerge_PreservesUntouchedKeys(t *testing.T) {
	existing := Document{"level": 5, "stats": Document{"wins": 3}}
	fields := Document{"name": "Bob"}

	merged := Merge(existing, fields)
	assert.Len(t, merged, 3)
	assert.Equal(t, Document{"wins": 3}, merged["stats"])
}

func TestMerge_EmptyFields_LeavesDocumentUnchanged(t *testing.T) {
	existing := Document{"level": 5}

	merged := Merge(existing, Document{})
	assert.Equal(t, existing, merged)
}

func TestMerge_DoesNotMutateExisting(t *testing.T) {
	existing := Document{"level": 5}

	_ = Merge(existing, Document{"level": 6})
	assert.Equal(t, 5, existing["level"])
}

func TestMerge_IsShallow(t *testing.T) {
	existing := Document{"stats": Document{"wins": 3, "losses": 1}}
	fields := Document{"stats": Document{"wins": 4}}

	merged := Merge(existing, fields)
	// Nested maps are replaced wholesale, not merged.
	assert.Equal(t, Document{"wins": 4}, merged["stats"])
}

func TestNarrow_EmptyPath_ReturnsWholeDocument(t *testing.T) {
	doc := Document{"level": 5}

	result := Narrow(doc, nil)
	assert.Equal(t, doc, result)
}

func TestNarrow_SelectsFirstSegment(t *testing.T) {
	doc := Document{"stats": Document{"wins": 3}, "level": 5}

	result := Narrow(doc, []string{"stats"})
	assert.Equal(t, Document{"wins": 3}, result)
}

func TestNarrow_DeeperSegmentsIgnored(t *testing.T) {
	doc := Document{"stats": Document{"wins": 3}}

	result := Narrow(doc, []string{"stats", "wins"})
	assert.Equal(t, Document{"wins": 3}, result, "only the first segment narrows")
}

func TestNarrow_MissingKey_ReturnsNil(t *testing.T) {
	doc := Document{"level": 5}

	assert.Nil(t, Narrow(doc, []string{"absent"}))
}

func TestStripReserved_DropsTimestampKeys(t *testing.T) {
	fields := Document{
		"level":                    5,
		constants.TimeCreatedField: "2000-01-01T00:00:00Z",
		constants.TimeUpdatedField: "2000-01-01T00:00:00Z",
	}

	stripped := StripReserved(fields)
	assert.Equal(t, Document{"level": 5}, stripped)
	assert.Len(t, fields, 3, "the input is not mutated")
}

func TestStampTimestamps_SetsCreatedOnce(t *testing.T) {
	doc := Document{}
	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	StampTimestamps(doc, first)

	created := doc[constants.TimeCreatedField]
	require.Equal(t, "2026-01-02T03:04:05Z", created)

	later := first.Add(time.Hour)
	StampTimestamps(doc, later)
	assert.Equal(t, created, doc[constants.TimeCreatedField], "@time_created is stamped only once")
	assert.Equal(t, "2026-01-02T04:04:05Z", doc[constants.TimeUpdatedField])
}

func TestStampTimestamps_AlwaysRefreshesUpdated(t *testing.T) {
	doc := Document{"level": 5}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	StampTimestamps(doc, now)
	assert.Equal(t, "2026-01-02T03:04:05Z", doc[constants.TimeUpdatedField])
	assert.Equal(t, 5, doc["level"])
}

func TestTopLevelKeys_ListsAllKeys(t *testing.T) {
	doc := Document{"level": 5, "name": "Bob"}
	StampTimestamps(doc, time.Now())

	keys := TopLevelKeys(doc)
	assert.ElementsMatch(t, []string{"level", "name", constants.TimeCreatedField, constants.TimeUpdatedField}, keys)
}
