package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talentalign/internal/kvstore"
	"github.com/jonathan/talentalign/internal/relay"
	"github.com/jonathan/talentalign/internal/session"
	"github.com/jonathan/talentalign/internal/types"
)

// unreadableStore fails Get while failGet is set.
type unreadableStore struct {
	*kvstore.Memory
	failGet bool
}

func (s *unreadableStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.failGet {
		return "", false, errors.New("i/o timeout")
	}
	return s.Memory.Get(ctx, key)
}

func newCache(store kvstore.Store) (*Cache, *relay.Relay) {
	r := relay.New(store, nil)
	return NewCache(store, r, nil), r
}

func TestList_Empty(t *testing.T) {
	c, _ := newCache(kvstore.NewMemory())
	entries := c.List(context.Background())
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestAppend_NewestFirstAndCapped(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(kvstore.NewMemory())

	for i := 0; i < Capacity+4; i++ {
		entry := NewEntry(&types.AnalysisResult{Score: float64(i)}, fmt.Sprintf("c%d", i), "", time.Now())
		require.NoError(t, c.Append(ctx, entry))
	}

	entries := c.List(ctx)
	require.Len(t, entries, Capacity)
	for i, e := range entries {
		assert.Equal(t, float64(Capacity+3-i), e.Score)
	}
}

func TestList_CorruptData(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	require.NoError(t, store.Set(ctx, kvstore.KeyHistory, "not json"))

	c, _ := newCache(store)
	assert.Empty(t, c.List(ctx))

	require.NoError(t, c.Append(ctx, NewEntry(&types.AnalysisResult{Score: 12}, "", "", time.Now())))
	assert.Len(t, c.List(ctx), 1)
}

func TestAppend_ReadFailureKeepsStoredEntries(t *testing.T) {
	ctx := context.Background()
	store := &unreadableStore{Memory: kvstore.NewMemory()}
	c, _ := newCache(store)

	for i := 0; i < 5; i++ {
		require.NoError(t, c.Append(ctx, NewEntry(&types.AnalysisResult{Score: float64(i)}, "", "", time.Now())))
	}

	store.failGet = true
	err := c.Append(ctx, NewEntry(&types.AnalysisResult{Score: 99}, "", "", time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "i/o timeout")
	assert.Empty(t, c.List(ctx))

	store.failGet = false
	entries := c.List(ctx)
	require.Len(t, entries, 5)
	assert.Equal(t, 4.0, entries[0].Score)
}

func TestList_TruncatesOversizedData(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	c, _ := newCache(store)

	var raw string
	for i := 0; i < 15; i++ {
		if i > 0 {
			raw += ","
		}
		raw += fmt.Sprintf(`{"id":"e%d","score":%d,"created_at":"2025-01-01T00:00:00Z"}`, i, i)
	}
	require.NoError(t, store.Set(ctx, kvstore.KeyHistory, "["+raw+"]"))

	entries := c.List(ctx)
	require.Len(t, entries, Capacity)
	assert.Equal(t, "e0", entries[0].ID)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(kvstore.NewMemory())
	require.NoError(t, c.Append(ctx, NewEntry(&types.AnalysisResult{Score: 1}, "", "", time.Now())))

	require.NoError(t, c.Clear(ctx))
	assert.Empty(t, c.List(ctx))
}

func TestNewEntry_MetadataWins(t *testing.T) {
	result := &types.AnalysisResult{
		Score:             71,
		OverlappingSkills: []string{"Go"},
		InputMetadata:     types.Metadata{types.MetaCandidateName: "Ada", types.MetaRoleTitle: "  "},
	}
	entry := NewEntry(result, "Fallback", "Backend Engineer", time.Now())

	assert.NotEmpty(t, entry.ID)
	require.NotNil(t, entry.CandidateName)
	assert.Equal(t, "Ada", *entry.CandidateName)
	require.NotNil(t, entry.RoleTitle)
	assert.Equal(t, "Backend Engineer", *entry.RoleTitle)
	assert.Equal(t, []string{"Go"}, entry.OverlappingSkills)
	assert.Equal(t, []string{}, entry.MissingSkills)
}

func TestNewEntry_BlankNamesAbsent(t *testing.T) {
	entry := NewEntry(&types.AnalysisResult{Score: 50}, " ", "", time.Now())
	assert.Nil(t, entry.CandidateName)
	assert.Nil(t, entry.RoleTitle)
	assert.Equal(t, "-", entry.Candidate())
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(kvstore.NewMemory())
	entry := NewEntry(&types.AnalysisResult{Score: 33}, "", "", time.Now())
	require.NoError(t, c.Append(ctx, entry))

	got, ok := c.Find(ctx, entry.ID)
	require.True(t, ok)
	assert.Equal(t, entry.ID, got.ID)

	got, ok = c.Find(ctx, entry.ID[:8])
	require.True(t, ok)
	assert.Equal(t, entry.ID, got.ID)

	_, ok = c.Find(ctx, "missing")
	assert.False(t, ok)
	_, ok = c.Find(ctx, "")
	assert.False(t, ok)
}

func TestReopen_PublishesStoredResult(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	c, r := newCache(store)

	first := NewEntry(&types.AnalysisResult{Score: 64}, "A", "", time.Now())
	require.NoError(t, c.Append(ctx, first))
	require.NoError(t, r.Publish(ctx, &types.AnalysisResult{Score: 91}))

	stored, ok := c.Find(ctx, first.ID)
	require.True(t, ok)
	view, err := c.Reopen(ctx, stored)
	require.NoError(t, err)
	assert.Equal(t, session.ViewResult, view)

	got, ok := r.Consume(ctx)
	require.True(t, ok)
	assert.Equal(t, 64.0, got.Score)
}

func TestReopen_NoResult(t *testing.T) {
	c, _ := newCache(kvstore.NewMemory())
	_, err := c.Reopen(context.Background(), types.HistoryEntry{ID: "x"})
	assert.Error(t, err)
}
