// White-box check that a sparse OrdinalMap reclaims its mutex backing:
// the registry table spans the whole ordinal range, but only member slots
// count toward reclamation.
package lazy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestOrdinalMapSparseReclaim resolves every member of a widely spread key
// set and requires the registry backing to drop even though the span's gap
// slots never finalize.
func TestOrdinalMapSparseReclaim(t *testing.T) {
	m, err := NewOrdinalMap([]int{0, 100}, func(k int) (int, error) { return k + 1, nil })
	require.NoError(t, err)

	v, err := m.Get(0)
	require.NoError(t, err)
	require.Equal(t, 1, v)
	require.False(t, m.reg.Dropped(), "one member still unresolved")

	v, err = m.Get(100)
	require.NoError(t, err)
	require.Equal(t, 101, v)
	require.True(t, m.reg.Dropped(), "all members resolved; the 101-slot table must not be pinned")

	// Resolved members stay readable off the published outcomes.
	v, err = m.Get(100)
	require.NoError(t, err)
	require.Equal(t, 101, v)
}
