package blob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WriteReadRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	loc := s.NewLocator()
	require.NoError(t, s.Write(loc, []byte("hello")))

	data, err := s.Read(loc)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestStore_ReadMissing(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.Read("no-such-locator")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_LocatorsAreUnique(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		loc := s.NewLocator()
		assert.False(t, seen[loc])
		seen[loc] = true
	}
}

func TestDerivativeLocator(t *testing.T) {
	assert.Equal(t, "abc_500", DerivativeLocator("abc", 500))
	assert.Equal(t, "abc_100", DerivativeLocator("abc", 100))
}

func TestStore_OverwriteIsIdempotent(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	loc := DerivativeLocator(s.NewLocator(), 250)
	require.NoError(t, s.Write(loc, []byte("thumb")))
	require.NoError(t, s.Write(loc, []byte("thumb")))

	data, err := s.Read(loc)
	require.NoError(t, err)
	assert.Equal(t, []byte("thumb"), data)
}
