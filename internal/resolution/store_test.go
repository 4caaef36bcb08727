package resolution

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurashield/aurashield/internal/models"
	"github.com/aurashield/aurashield/internal/repository"
)

func fileStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resolved.json")
	return NewStore(repository.NewFileResolutionRepository(path), nil), path
}

func alerts(ids ...string) []models.Alert {
	out := make([]models.Alert, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Alert{ID: id})
	}
	return out
}

func TestMarkResolvedAndIsResolved(t *testing.T) {
	ctx := context.Background()
	s, _ := fileStore(t)

	assert.False(t, s.IsResolved(ctx, "5"))
	s.MarkResolved(ctx, "5")
	assert.True(t, s.IsResolved(ctx, "5"))
	assert.False(t, s.IsResolved(ctx, "6"))
}

func TestMarkResolvedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := fileStore(t)

	s.MarkResolved(ctx, "5")
	s.MarkResolved(ctx, "5")
	s.MarkResolved(ctx, "5")

	assert.Equal(t, []string{"5"}, s.ResolvedIDs(ctx))
}

func TestFilterOutResolvedPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := fileStore(t)
	s.MarkResolved(ctx, "b")

	in := alerts("a", "b", "c", "d")
	out := s.FilterOutResolved(ctx, in)

	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
	assert.Equal(t, "d", out[2].ID)

	// Input is untouched.
	assert.Len(t, in, 4)
	assert.Equal(t, "b", in[1].ID)
}

func TestFilterOutResolvedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := fileStore(t)
	s.MarkResolved(ctx, "a")
	s.MarkResolved(ctx, "c")

	once := s.FilterOutResolved(ctx, alerts("a", "b", "c", "d"))
	twice := s.FilterOutResolved(ctx, once)

	assert.Equal(t, once, twice)
}

func TestResolvedIDsSurviveReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "resolved.json")
	repo := repository.NewFileResolutionRepository(path)

	first := NewStore(repo, nil)
	first.MarkResolved(ctx, "7")
	first.MarkResolved(ctx, "3")

	// A fresh store over the same file sees the persisted set.
	second := NewStore(repository.NewFileResolutionRepository(path), nil)
	assert.Equal(t, []string{"3", "7"}, second.ResolvedIDs(ctx))
	assert.True(t, second.IsResolved(ctx, "7"))
}

type failingRepo struct{}

func (failingRepo) Load(context.Context) ([]string, error) {
	return nil, fmt.Errorf("storage unavailable")
}

func (failingRepo) Save(context.Context, []string) error {
	return fmt.Errorf("storage unavailable")
}

func TestStoreDegradesToMemoryOnPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	s := NewStore(failingRepo{}, nil)

	// Neither load nor save failures surface; the set still works.
	s.MarkResolved(ctx, "9")
	assert.True(t, s.IsResolved(ctx, "9"))
	assert.Equal(t, []string{"9"}, s.ResolvedIDs(ctx))

	out := s.FilterOutResolved(ctx, alerts("9", "10"))
	require.Len(t, out, 1)
	assert.Equal(t, "10", out[0].ID)
}

func TestNilRepositoryIsMemoryOnly(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil, nil)

	s.MarkResolved(ctx, "1")
	assert.True(t, s.IsResolved(ctx, "1"))
}
