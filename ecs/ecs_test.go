package ecs

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/kwertop/bitvec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAssignsSequentialIDs(t *testing.T) {
	r := NewComponentRegistry(nil)
	defer r.Close()
	pos, err := r.Register("position", 12)
	require.NoError(t, err)
	vel, err := r.Register("velocity", 12)
	require.NoError(t, err)
	assert.Equal(t, ComponentID(0), pos)
	assert.Equal(t, ComponentID(1), vel)
	assert.Equal(t, 2, r.Count())

	info, ok := r.Info(vel)
	require.True(t, ok)
	assert.Equal(t, ComponentInfo{Name: "velocity", Size: 12}, info)
	_, ok = r.Info(5)
	assert.False(t, ok)
	id, ok := r.Lookup("position")
	require.True(t, ok)
	assert.Equal(t, pos, id)

	all := r.AllComponents()
	assert.Equal(t, []ComponentID{pos, vel}, all.Components())
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	r := NewComponentRegistry(nil)
	id, err := r.Register("", 4)
	require.ErrorIs(t, err, ErrInvalidName)
	assert.Equal(t, InvalidComponentID, id)
	assert.Equal(t, 0, r.Count())
}

func TestRegistryFull(t *testing.T) {
	var logs bytes.Buffer
	logger := bitvec.NewLogger(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := NewComponentRegistry(logger)
	for i := 0; i < MaxComponents; i++ {
		id, err := r.Register(fmt.Sprintf("c%d", i), 8)
		require.NoError(t, err)
		require.Equal(t, ComponentID(i), id)
	}
	_, err := r.Register("one-too-many", 8)
	require.ErrorIs(t, err, ErrRegistryFull)
	assert.Equal(t, MaxComponents, r.Count())
	assert.Equal(t, MaxComponents, r.AllComponents().Count())
	assert.Contains(t, logs.String(), "registered component")
	assert.Contains(t, logs.String(), "maximum number of components reached")
}

func TestRegistryClose(t *testing.T) {
	r := NewComponentRegistry(bitvec.NoopLogger())
	_, err := r.Register("a", 1)
	require.NoError(t, err)
	r.Close()
	r.Close()
	_, err = r.Register("b", 1)
	require.ErrorIs(t, err, ErrRegistryClosed)
	assert.Equal(t, 0, r.Count())
}

func TestRegistryConcurrentRegister(t *testing.T) {
	r := NewComponentRegistry(bitvec.NoopLogger())
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				_, err := r.Register(fmt.Sprintf("g%d-%d", g, i), 4)
				assert.NoError(t, err)
			}
		}(g)
	}
	wg.Wait()
	assert.Equal(t, 160, r.Count())
	assert.Equal(t, 160, r.AllComponents().Count())
}

func TestRegistered(t *testing.T) {
	r := NewComponentRegistry(nil)
	a, _ := r.Register("a", 1)
	mask, err := NewComponentMask(a)
	require.NoError(t, err)
	assert.True(t, r.Registered(mask))
	require.NoError(t, mask.Set(100))
	assert.False(t, r.Registered(mask))
}

func TestComponentMask(t *testing.T) {
	m, err := NewComponentMask(1, 5, MaxComponents-1)
	require.NoError(t, err)
	assert.True(t, m.Has(5))
	assert.False(t, m.Has(4))
	assert.False(t, m.Has(-1))
	assert.False(t, m.Has(MaxComponents))
	assert.Equal(t, 3, m.Count())

	var invalid *InvalidComponentError
	require.ErrorAs(t, m.Set(MaxComponents), &invalid)
	assert.Equal(t, ComponentID(MaxComponents), invalid.ID)
	require.Error(t, m.Set(-3))

	m.Clear(5)
	m.Clear(-1)
	assert.Equal(t, []ComponentID{1, MaxComponents - 1}, m.Components())
	assert.Equal(t, "{1,447}", m.String())

	c := m.Clone()
	require.NoError(t, c.Set(2))
	assert.False(t, m.Has(2))
	assert.False(t, m.Equal(c))
	c.Clear(2)
	assert.True(t, m.Equal(c))

	m.Release()
	assert.True(t, m.Empty())
	require.NoError(t, m.Set(3))
	assert.True(t, m.Has(3))

	_, err = NewComponentMask(MaxComponents + 1)
	require.Error(t, err)
}

func TestComponentMaskRelations(t *testing.T) {
	entity, err := NewComponentMask(0, 2, 300)
	require.NoError(t, err)
	sub, err := NewComponentMask(2, 300)
	require.NoError(t, err)
	other, err := NewComponentMask(1, 3)
	require.NoError(t, err)

	assert.True(t, entity.HasAll(sub))
	assert.False(t, sub.HasAll(entity))
	assert.True(t, entity.HasAny(sub))
	assert.False(t, entity.HasAny(other))
	assert.True(t, entity.HasNone(other))
}

func TestQueryMatches(t *testing.T) {
	q, err := NewQuery([]ComponentID{0, 1}, []ComponentID{400})
	require.NoError(t, err)
	defer q.Release()

	withBoth, _ := NewComponentMask(0, 1, 7)
	missingOne, _ := NewComponentMask(0, 7)
	excluded, _ := NewComponentMask(0, 1, 400)
	empty, _ := NewComponentMask()

	assert.True(t, q.Matches(withBoth))
	assert.False(t, q.Matches(missingOne))
	assert.False(t, q.Matches(excluded))
	assert.False(t, q.Matches(empty))
	assert.Equal(t, []int{0}, q.Filter([]*ComponentMask{withBoth, missingOne, excluded, empty}))

	all, err := NewQuery(nil, nil)
	require.NoError(t, err)
	assert.True(t, all.Matches(empty))

	_, err = NewQuery([]ComponentID{MaxComponents}, nil)
	require.Error(t, err)
	_, err = NewQuery(nil, []ComponentID{-2})
	require.Error(t, err)
}
