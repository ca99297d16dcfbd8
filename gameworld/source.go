package gameworld

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"badc0de.net/pkg/go-glowstone/nbt"
)

// ChunkSource provides chunk columns by chunk coordinates. Implementations
// must be safe for concurrent use.
type ChunkSource interface {
	Chunk(x, z int32) (*Chunk, error)
}

// Block ids used by the flat generator.
const (
	BlockAir     = 0
	BlockStone   = 1
	BlockGrass   = 2
	BlockDirt    = 3
	BlockBedrock = 7

	BiomePlains = 1
)

type flatChunkSource struct {
	layers []byte
}

// NewFlatChunkSource generates every column the same: bedrock at the
// bottom, two layers of dirt and grass on top, full sky light above.
func NewFlatChunkSource() ChunkSource {
	return &flatChunkSource{layers: []byte{BlockBedrock, BlockDirt, BlockDirt, BlockGrass}}
}

func (g *flatChunkSource) Chunk(x, z int32) (*Chunk, error) {
	c := NewChunk(x, z)
	for i := range c.Biomes {
		c.Biomes[i] = BiomePlains
	}
	for bx := 0; bx < SectionHeight; bx++ {
		for bz := 0; bz < SectionHeight; bz++ {
			for y, id := range g.layers {
				if err := c.SetBlock(bx, y, bz, id, 0); err != nil {
					return nil, err
				}
			}
		}
	}
	for _, s := range c.Sections {
		if s == nil {
			continue
		}
		for i := range s.SkyLight {
			s.SkyLight[i] = 0xff
		}
	}
	return c, nil
}

// ChunkStore keeps chunks in memory and persists them as NBT files in a
// directory. Columns without a readable file come from a fallback source.
// Chunks unused for longer than the cache TTL are dropped from memory,
// and written out first if they changed.
type ChunkStore struct {
	dir         string
	compression nbt.Compression
	fallback    ChunkSource

	loads  singleflight.Group
	chunks *cache.Cache

	mu    sync.Mutex
	dirty map[string]*Chunk
}

// StoreOptions configures a ChunkStore.
type StoreOptions struct {
	// Dir holds the chunk files. Empty keeps chunks in memory only, and
	// they are never evicted.
	Dir         string
	Compression nbt.Compression
	// CacheTTL is how long an unused chunk stays in memory. Zero keeps
	// chunks until the store is discarded.
	CacheTTL time.Duration
}

// NewChunkStore creates the directory if needed.
func NewChunkStore(opts StoreOptions, fallback ChunkSource) (*ChunkStore, error) {
	if opts.Compression == "" {
		opts.Compression = nbt.Gzip
	}
	if _, err := nbt.ParseCompression(string(opts.Compression)); err != nil {
		return nil, err
	}
	ttl := opts.CacheTTL
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, errors.Wrap(err, "creating world directory")
		}
	} else {
		ttl = 0
	}
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	s := &ChunkStore{
		dir:         opts.Dir,
		compression: opts.Compression,
		fallback:    fallback,
		chunks:      cache.New(ttl, cleanupInterval(ttl)),
		dirty:       map[string]*Chunk{},
	}
	s.chunks.OnEvicted(s.evicted)
	return s, nil
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl == cache.NoExpiration {
		return 0
	}
	if ttl < 2*time.Second {
		return time.Second
	}
	return ttl / 2
}

func chunkKey(x, z int32) string {
	return fmt.Sprintf("%d,%d", x, z)
}

// Path is the file a chunk is stored in.
func (s *ChunkStore) Path(x, z int32) string {
	return filepath.Join(s.dir, fmt.Sprintf("c.%d.%d.dat", x, z))
}

// Cached reports how many chunks are in memory.
func (s *ChunkStore) Cached() int {
	return s.chunks.ItemCount()
}

func (s *ChunkStore) Chunk(x, z int32) (*Chunk, error) {
	key := chunkKey(x, z)
	if v, ok := s.chunks.Get(key); ok {
		return v.(*Chunk), nil
	}

	v, err, _ := s.loads.Do(key, func() (interface{}, error) {
		if v, ok := s.chunks.Get(key); ok {
			return v, nil
		}
		s.mu.Lock()
		c, ok := s.dirty[key]
		s.mu.Unlock()
		if !ok {
			var fromDisk bool
			var err error
			c, fromDisk, err = s.load(x, z)
			if err != nil {
				return nil, err
			}
			if !fromDisk {
				s.mu.Lock()
				s.dirty[key] = c
				s.mu.Unlock()
			}
		}
		s.chunks.SetDefault(key, c)
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Chunk), nil
}

func (s *ChunkStore) load(x, z int32) (*Chunk, bool, error) {
	if s.dir != "" {
		path := s.Path(x, z)
		_, root, err := nbt.ReadFile(path)
		if err == nil {
			c, err := ChunkFromTag(root)
			if err == nil && (c.X != x || c.Z != z) {
				err = errors.Errorf("holds chunk %d,%d", c.X, c.Z)
			}
			if err == nil {
				glog.V(2).Infof("loaded chunk %d,%d from %s", x, z, path)
				return c, true, nil
			}
			glog.Warningf("chunk %d,%d: %s: %v; generating a replacement", x, z, path, err)
		} else if !errors.Is(err, fs.ErrNotExist) {
			glog.Warningf("chunk %d,%d: %v; generating a replacement", x, z, err)
		}
	}
	if s.fallback == nil {
		return nil, false, errors.Errorf("chunk %d,%d not found", x, z)
	}
	c, err := s.fallback.Chunk(x, z)
	return c, false, err
}

// Put replaces a chunk and marks it for saving.
func (s *ChunkStore) Put(c *Chunk) {
	key := chunkKey(c.X, c.Z)
	s.mu.Lock()
	s.dirty[key] = c
	s.mu.Unlock()
	s.chunks.SetDefault(key, c)
}

func (s *ChunkStore) evicted(key string, v interface{}) {
	s.mu.Lock()
	c, ok := s.dirty[key]
	s.mu.Unlock()
	if !ok || c != v.(*Chunk) {
		return
	}
	glog.V(2).Infof("chunk %s evicted with changes, saving", key)
	if err := s.save(c); err != nil {
		glog.Errorf("saving evicted chunk %s: %v", key, err)
		return
	}
	s.mu.Lock()
	if s.dirty[key] == c {
		delete(s.dirty, key)
	}
	s.mu.Unlock()
}

// Flush writes all chunks changed or generated since they were loaded.
func (s *ChunkStore) Flush() error {
	if s.dir == "" {
		return nil
	}
	s.mu.Lock()
	pending := make(map[string]*Chunk, len(s.dirty))
	for key, c := range s.dirty {
		pending[key] = c
	}
	s.mu.Unlock()

	var firstErr error
	for key, c := range pending {
		if err := s.save(c); err != nil {
			glog.Errorf("saving chunk %d,%d: %v", c.X, c.Z, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		s.mu.Lock()
		if s.dirty[key] == c {
			delete(s.dirty, key)
		}
		s.mu.Unlock()
	}
	glog.V(1).Infof("flushed %d chunks", len(pending))
	return firstErr
}

func (s *ChunkStore) save(c *Chunk) error {
	root, err := c.ToTag()
	if err != nil {
		return err
	}
	return nbt.WriteFile(s.Path(c.X, c.Z), "", root, s.compression)
}
