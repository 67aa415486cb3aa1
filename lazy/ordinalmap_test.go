// Package lazy_test verifies the OrdinalMap construct: offset slotting,
// bitset membership, and foreign-key rejection ahead of the slot table.
package lazy_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/lazyslot/lazyslot/lazy"
	"github.com/lazyslot/lazyslot/slot"
	"github.com/stretchr/testify/require"
)

// weekday is an enum-style key type, the natural OrdinalMap client.
type weekday int

const (
	monday weekday = iota + 1
	tuesday
	wednesday
	thursday
	friday
)

// TestOrdinalMapBasic computes per-key values over an enum key set.
func TestOrdinalMapBasic(t *testing.T) {
	var calls atomic.Int32
	m, err := lazy.NewOrdinalMap([]weekday{monday, wednesday, friday}, func(d weekday) (int, error) {
		calls.Add(1)
		return int(d) * 100, nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, m.Len())

	v, err := m.Get(wednesday)
	require.NoError(t, err)
	require.Equal(t, 300, v)
	v, err = m.Get(wednesday)
	require.NoError(t, err)
	require.Equal(t, 300, v)
	require.EqualValues(t, 1, calls.Load())
}

// TestOrdinalMapForeignKeys checks keys outside the set: gaps inside the
// span, keys below min, and keys above max are all rejected without the
// computing function ever running.
func TestOrdinalMapForeignKeys(t *testing.T) {
	var calls atomic.Int32
	m, err := lazy.NewOrdinalMap([]weekday{monday, wednesday, friday}, func(d weekday) (int, error) {
		calls.Add(1)
		return int(d), nil
	})
	require.NoError(t, err)

	for _, d := range []weekday{tuesday, thursday, 0, -3, 99} {
		require.False(t, m.Contains(d), "key %d is foreign", d)

		_, err := m.Get(d)
		require.ErrorIs(t, err, lazy.ErrUnknownKey, "Get(%d)", d)

		_, err = m.State(d)
		require.ErrorIs(t, err, lazy.ErrUnknownKey, "State(%d)", d)

		require.Equal(t, -1, m.GetOr(d, -1))
		require.NoError(t, m.Err(d))
	}
	require.EqualValues(t, 0, calls.Load(), "foreign keys never reach the function")
}

// TestOrdinalMapNegativeOrdinals checks the offset math with a key set
// straddling zero.
func TestOrdinalMapNegativeOrdinals(t *testing.T) {
	m, err := lazy.NewOrdinalMap([]int8{-5, 0, 5}, func(k int8) (int, error) {
		return int(k) + 1000, nil
	})
	require.NoError(t, err)

	for _, k := range []int8{-5, 0, 5} {
		require.True(t, m.Contains(k))
		v, err := m.Get(k)
		require.NoError(t, err)
		require.Equal(t, int(k)+1000, v)
	}
	require.False(t, m.Contains(-6))
	require.False(t, m.Contains(3))
}

// TestOrdinalMapDuplicateInputKey checks constructor rejection of repeats.
func TestOrdinalMapDuplicateInputKey(t *testing.T) {
	_, err := lazy.NewOrdinalMap([]weekday{monday, friday, monday}, func(d weekday) (int, error) {
		return 0, nil
	})
	require.ErrorIs(t, err, lazy.ErrDuplicateInputKey)
}

// TestOrdinalMapEmptyKeySet checks the degenerate empty construct.
func TestOrdinalMapEmptyKeySet(t *testing.T) {
	m, err := lazy.NewOrdinalMap(nil, func(k int) (int, error) { return k, nil })
	require.NoError(t, err)
	require.Equal(t, 0, m.Len())
	require.Empty(t, m.Keys())

	_, err = m.Get(0)
	require.ErrorIs(t, err, lazy.ErrUnknownKey)
}

// TestOrdinalMapConcurrentGet races 50 goroutines over one member key.
func TestOrdinalMapConcurrentGet(t *testing.T) {
	var calls atomic.Int32
	m, err := lazy.NewOrdinalMap([]weekday{monday, friday}, func(d weekday) (int, error) {
		calls.Add(1)
		return int(d) * 7, nil
	})
	require.NoError(t, err)

	const num = 50
	var wg sync.WaitGroup
	wg.Add(num)
	for i := 0; i < num; i++ {
		go func() {
			defer wg.Done()
			v, err := m.Get(friday)
			require.NoError(t, err)
			require.Equal(t, 35, v)
		}()
	}
	wg.Wait()
	require.EqualValues(t, 1, calls.Load())
}

// TestOrdinalMapAllOrderAndFailures iterates in construction order and
// skips the failing key.
func TestOrdinalMapAllOrderAndFailures(t *testing.T) {
	m, err := lazy.NewOrdinalMap([]weekday{friday, monday, wednesday}, func(d weekday) (int, error) {
		if d == monday {
			return 0, errors.New("closed on monday")
		}
		return int(d), nil
	})
	require.NoError(t, err)

	var keys []weekday
	for k, v := range m.All() {
		keys = append(keys, k)
		require.Equal(t, int(k), v)
	}
	require.Equal(t, []weekday{friday, wednesday}, keys)

	st, err := m.State(monday)
	require.NoError(t, err)
	require.Equal(t, slot.StateError, st)
}

// TestOrdinalMapKeysCopy checks Keys preserves construction order and is a
// defensive copy.
func TestOrdinalMapKeysCopy(t *testing.T) {
	m, err := lazy.NewOrdinalMap[weekday, int]([]weekday{friday, monday}, nil)
	require.NoError(t, err)

	keys := m.Keys()
	require.Equal(t, []weekday{friday, monday}, keys)
	keys[0] = tuesday
	require.Equal(t, []weekday{friday, monday}, m.Keys())
}
