package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurashield/aurashield/internal/models"
)

func alert(id, title string, ts time.Time) models.Alert {
	return models.Alert{ID: id, Title: title, Timestamp: ts}
}

func TestMergeByIDKeepsUniqueEntries(t *testing.T) {
	now := time.Now().UTC()
	first := []models.Alert{alert("1", "a", now), alert("2", "b", now)}
	second := []models.Alert{alert("3", "c", now)}

	out := MergeByID(first, second, PreferSecond)
	require.Len(t, out, 3)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "2", out[1].ID)
	assert.Equal(t, "3", out[2].ID)
}

func TestMergeByIDPreferSecond(t *testing.T) {
	now := time.Now().UTC()
	first := []models.Alert{alert("x", "mock payload", now)}
	second := []models.Alert{alert("x", "live payload", now.Add(-time.Hour))}

	out := MergeByID(first, second, PreferSecond)
	require.Len(t, out, 1)
	assert.Equal(t, "live payload", out[0].Title)
}

func TestMergeByIDPreferFirst(t *testing.T) {
	now := time.Now().UTC()
	first := []models.Alert{alert("x", "mock payload", now)}
	second := []models.Alert{alert("x", "live payload", now)}

	out := MergeByID(first, second, PreferFirst)
	require.Len(t, out, 1)
	assert.Equal(t, "mock payload", out[0].Title)
}

func TestMergeByIDPreferNewest(t *testing.T) {
	now := time.Now().UTC()

	out := MergeByID(
		[]models.Alert{alert("x", "older", now.Add(-time.Hour))},
		[]models.Alert{alert("x", "newer", now)},
		PreferNewest,
	)
	require.Len(t, out, 1)
	assert.Equal(t, "newer", out[0].Title)

	out = MergeByID(
		[]models.Alert{alert("x", "newer", now)},
		[]models.Alert{alert("x", "older", now.Add(-time.Hour))},
		PreferNewest,
	)
	require.Len(t, out, 1)
	assert.Equal(t, "newer", out[0].Title)
}

func TestMergeByIDDuplicateWithinOneList(t *testing.T) {
	now := time.Now().UTC()
	first := []models.Alert{alert("x", "early dup", now), alert("x", "late dup", now)}

	out := MergeByID(first, nil, PreferSecond)
	require.Len(t, out, 1)
	assert.Equal(t, "late dup", out[0].Title)
}

func TestMergeByIDEmptyInputs(t *testing.T) {
	now := time.Now().UTC()
	assert.Empty(t, MergeByID(nil, nil, PreferSecond))

	out := MergeByID(nil, []models.Alert{alert("1", "only", now)}, PreferSecond)
	require.Len(t, out, 1)
	assert.Equal(t, "only", out[0].Title)
}
