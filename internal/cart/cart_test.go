package cart

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cart Cart
	}{
		{"single entry", Cart{"1": 2}},
		{"multiple entries", Cart{"1": 2, "3": 1, "10": 7}},
		{"empty", Cart{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.cart, Decode(tt.cart.Encode()))
		})
	}
}

func TestEncodeStableOrder(t *testing.T) {
	c := Cart{"10": 1, "2": 3, "1": 2}
	// Numeric key order, no trailing comma, no whitespace.
	assert.Equal(t, "1:2,2:3,10:1", c.Encode())
	assert.Equal(t, c.Encode(), Decode(c.Encode()).Encode())
}

func TestDecodeLenient(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Cart
	}{
		{"empty", "", Cart{}},
		{"whitespace", "  \n", Cart{}},
		{"missing colon", "garbage", Cart{}},
		{"bad quantity", "1:two", Cart{}},
		{"half written", "1:2,3", Cart{}},
		{"valid", "1:2,3:1", Cart{"1": 2, "3": 1}},
		{"zero quantity dropped", "1:0,2:3", Cart{"2": 3}},
		{"negative quantity dropped", "1:-4,2:3", Cart{"2": 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.text))
		})
	}
}

func TestCount(t *testing.T) {
	assert.Equal(t, 0, Cart{}.Count())
	assert.Equal(t, 3, Cart{"1": 2, "3": 1}.Count())
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	c := Cart{"1": 2, "3": 1}
	require.NoError(t, fs.Save(ctx, "sid", c))

	loaded, err := fs.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestFileStoreMissingIsEmpty(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	loaded, err := fs.Load(context.Background(), "never-saved")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileStoreEmptySaveRemovesArtifact(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, fs.Save(ctx, "sid", Cart{"1": 2}))
	require.NoError(t, fs.Save(ctx, "sid", Cart{}))

	_, err = os.Stat(filepath.Join(dir, "cart_sid.txt"))
	assert.True(t, os.IsNotExist(err))

	loaded, err := fs.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileStoreClearTwice(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.Save(ctx, "sid", Cart{"1": 1}))
	require.NoError(t, fs.Clear(ctx, "sid"))
	require.NoError(t, fs.Clear(ctx, "sid"))
}

func TestFileStoreMalformedIsEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cart_sid.txt"), []byte("not a cart"), 0o644))

	loaded, err := fs.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileStoreSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.Save(ctx, "a", Cart{"1": 1}))
	require.NoError(t, fs.Save(ctx, "b", Cart{"2": 5}))

	a, err := fs.Load(ctx, "a")
	require.NoError(t, err)
	b, err := fs.Load(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, Cart{"1": 1}, a)
	assert.Equal(t, Cart{"2": 5}, b)
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewManager(fs)
}

func TestManagerAddAccumulates(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	require.NoError(t, m.Add(ctx, "sid", "1", 2))
	require.NoError(t, m.Add(ctx, "sid", "1", 3))
	require.NoError(t, m.Add(ctx, "sid", "2", 1))

	c, err := m.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, Cart{"1": 5, "2": 1}, c)
}

func TestManagerSetManyDropsNonPositive(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	require.NoError(t, m.SetMany(ctx, "sid", map[string]int{"1": 0, "2": 3, "3": -1}))

	c, err := m.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, Cart{"2": 3}, c)
}

func TestManagerRemove(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	require.NoError(t, m.SetMany(ctx, "sid", map[string]int{"1": 2, "2": 3}))
	require.NoError(t, m.Remove(ctx, "sid", "1"))
	require.NoError(t, m.Remove(ctx, "sid", "missing"))

	c, err := m.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, Cart{"2": 3}, c)
}
