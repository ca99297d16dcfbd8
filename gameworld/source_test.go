package gameworld

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-glowstone/nbt"
)

func TestFlatChunkSource(t *testing.T) {
	c, err := NewFlatChunkSource().Chunk(5, -5)
	require.NoError(t, err)
	assert.Equal(t, int32(5), c.X)
	assert.Equal(t, int32(-5), c.Z)

	for y, want := range []byte{BlockBedrock, BlockDirt, BlockDirt, BlockGrass, BlockAir} {
		id, _ := c.Block(7, y, 9)
		assert.Equal(t, want, id, "y=%d", y)
	}
	assert.Equal(t, uint16(1), c.Message().PrimaryMask)
	assert.Equal(t, byte(0xff), c.Sections[0].SkyLight[0])
	assert.Equal(t, byte(BiomePlains), c.Biomes[100])
}

type countingSource struct {
	mu    sync.Mutex
	calls int
}

func (s *countingSource) Chunk(x, z int32) (*Chunk, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return NewFlatChunkSource().Chunk(x, z)
}

func TestChunkStoreCaches(t *testing.T) {
	src := &countingSource{}
	store, err := NewChunkStore(StoreOptions{CacheTTL: time.Millisecond}, src)
	require.NoError(t, err)

	var wg sync.WaitGroup
	got := make([]*Chunk, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := store.Chunk(1, 2)
			assert.NoError(t, err)
			got[i] = c
		}(i)
	}
	wg.Wait()
	for _, c := range got {
		assert.Same(t, got[0], c)
	}
	calls := src.calls
	c, err := store.Chunk(1, 2)
	require.NoError(t, err)
	assert.Same(t, got[0], c)
	assert.Equal(t, calls, src.calls, "memory-only chunks are never evicted")
}

func TestChunkStorePersists(t *testing.T) {
	for _, compression := range []nbt.Compression{nbt.Gzip, nbt.None, nbt.LZ4} {
		dir := t.TempDir()
		store, err := NewChunkStore(StoreOptions{Dir: dir, Compression: compression}, NewFlatChunkSource())
		require.NoError(t, err)

		c, err := store.Chunk(-1, 3)
		require.NoError(t, err)
		require.NoError(t, c.SetBlock(0, 10, 0, BlockStone, 0))
		store.Put(c)
		require.NoError(t, store.Flush())
		assert.FileExists(t, filepath.Join(dir, "c.-1.3.dat"))

		reopened, err := NewChunkStore(StoreOptions{Dir: dir}, nil)
		require.NoError(t, err)
		loaded, err := reopened.Chunk(-1, 3)
		require.NoError(t, err)
		assert.Equal(t, c, loaded)

		_, err = reopened.Chunk(0, 0)
		assert.Error(t, err, "no file and no fallback")
	}
}

func TestChunkStoreReplacesCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewChunkStore(StoreOptions{Dir: dir}, NewFlatChunkSource())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(0, 0), []byte("garbage"), 0644))

	c, err := store.Chunk(0, 0)
	require.NoError(t, err)
	id, _ := c.Block(0, 0, 0)
	assert.Equal(t, byte(BlockBedrock), id)

	require.NoError(t, store.Flush())
	reopened, err := NewChunkStore(StoreOptions{Dir: dir}, nil)
	require.NoError(t, err)
	_, err = reopened.Chunk(0, 0)
	assert.NoError(t, err, "the replacement was written back")
}

func TestChunkStoreRejectsMisplacedChunk(t *testing.T) {
	dir := t.TempDir()
	store, err := NewChunkStore(StoreOptions{Dir: dir, Compression: nbt.None}, NewFlatChunkSource())
	require.NoError(t, err)
	_, err = store.Chunk(4, 4)
	require.NoError(t, err)
	require.NoError(t, store.Flush())
	require.NoError(t, os.Rename(store.Path(4, 4), store.Path(5, 5)))

	reopened, err := NewChunkStore(StoreOptions{Dir: dir}, nil)
	require.NoError(t, err)
	_, err = reopened.Chunk(5, 5)
	assert.Error(t, err)
}

func TestChunkStoreEvictsAndSaves(t *testing.T) {
	dir := t.TempDir()
	store, err := NewChunkStore(StoreOptions{Dir: dir, CacheTTL: 50 * time.Millisecond}, NewFlatChunkSource())
	require.NoError(t, err)
	_, err = store.Chunk(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Cached())

	require.Eventually(t, func() bool { return store.Cached() == 0 }, 10*time.Second, 50*time.Millisecond)
	require.Eventually(t, func() bool {
		_, err := os.Stat(store.Path(2, 2))
		return err == nil
	}, 5*time.Second, 10*time.Millisecond, "generated chunk written on eviction")
}

func TestChunkStoreOptions(t *testing.T) {
	_, err := NewChunkStore(StoreOptions{Compression: "zip"}, nil)
	assert.Error(t, err)

	store, err := NewChunkStore(StoreOptions{}, NewFlatChunkSource())
	require.NoError(t, err)
	_, err = store.Chunk(0, 0)
	require.NoError(t, err)
	assert.NoError(t, store.Flush(), "nothing to write without a directory")
}
