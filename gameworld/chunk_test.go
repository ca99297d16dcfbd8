package gameworld

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"badc0de.net/pkg/go-glowstone/message"
	"badc0de.net/pkg/go-glowstone/nbt"
)

func TestChunkBlocks(t *testing.T) {
	c := NewChunk(0, 0)
	id, meta := c.Block(3, 40, 5)
	assert.Zero(t, id)
	assert.Zero(t, meta)

	require.NoError(t, c.SetBlock(0, 0, 0, BlockStone, 0))
	require.NoError(t, c.SetBlock(3, 40, 5, 35, 14))
	require.NoError(t, c.SetBlock(4, 40, 5, 35, 3))
	assert.Nil(t, c.Sections[1])
	require.NotNil(t, c.Sections[2])

	id, meta = c.Block(3, 40, 5)
	assert.Equal(t, byte(35), id)
	assert.Equal(t, byte(14), meta)
	id, meta = c.Block(4, 40, 5)
	assert.Equal(t, byte(35), id)
	assert.Equal(t, byte(3), meta, "neighbouring nibbles are independent")

	assert.Error(t, c.SetBlock(16, 0, 0, BlockStone, 0))
	assert.Error(t, c.SetBlock(0, WorldHeight, 0, BlockStone, 0))
	require.NoError(t, c.SetBlock(0, 100, 0, BlockAir, 0))
	assert.Nil(t, c.Sections[6], "placing air does not allocate a section")
}

func TestChunkMessageLayout(t *testing.T) {
	c := NewChunk(2, -3)
	require.NoError(t, c.SetBlock(1, 0, 0, BlockStone, 0))
	require.NoError(t, c.SetBlock(0, 17, 0, BlockDirt, 5))
	c.Biomes[0] = BiomePlains

	m := c.Message()
	assert.Equal(t, int32(2), m.X)
	assert.Equal(t, int32(-3), m.Z)
	assert.True(t, m.Continuous)
	assert.Equal(t, uint16(0x0003), m.PrimaryMask)
	require.Len(t, m.Data, 2*(4096+3*2048)+256)

	// Block arrays of both sections come first, then metadata.
	assert.Equal(t, byte(BlockStone), m.Data[1])
	assert.Equal(t, byte(BlockDirt), m.Data[4096+sectionIndex(0, 1, 0)])
	assert.Equal(t, byte(5), m.Data[2*4096+2048+sectionIndex(0, 1, 0)/2]&0x0f)
	assert.Equal(t, byte(BiomePlains), m.Data[len(m.Data)-256])
}

func TestChunkWireRoundTrip(t *testing.T) {
	src := NewFlatChunkSource()
	c, err := src.Chunk(-1, 7)
	require.NoError(t, err)

	body, err := message.ChunkDataCodec.EncodeBytes(c.Message())
	require.NoError(t, err)
	parsed, err := message.ParseChunkData(body)
	require.NoError(t, err)
	got, err := ChunkFromMessage(parsed)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestChunkFromMessageLength(t *testing.T) {
	m := NewChunk(0, 0).Message()
	m.PrimaryMask = 1
	_, err := ChunkFromMessage(m)
	assert.Error(t, err)
}

func TestChunkTagRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := NewChunk(rapid.Int32().Draw(t, "x"), rapid.Int32().Draw(t, "z"))
		n := rapid.IntRange(0, 40).Draw(t, "blocks")
		for i := 0; i < n; i++ {
			x := rapid.IntRange(0, 15).Draw(t, "bx")
			y := rapid.IntRange(0, WorldHeight-1).Draw(t, "by")
			z := rapid.IntRange(0, 15).Draw(t, "bz")
			id := rapid.Byte().Draw(t, "id")
			meta := rapid.ByteRange(0, 15).Draw(t, "meta")
			if err := c.SetBlock(x, y, z, id, meta); err != nil {
				t.Fatal(err)
			}
			c.SetSkyLight(x, y, z, meta)
		}

		root, err := c.ToTag()
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		w := nbt.NewWriter(&buf, true)
		if err := w.WriteTag("", root); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		r, err := nbt.NewReader(&buf, true)
		if err != nil {
			t.Fatal(err)
		}
		_, decoded, err := r.ReadTag()
		if err != nil {
			t.Fatal(err)
		}
		got, err := ChunkFromTag(decoded)
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, c, got)
	})
}

func TestChunkFromTagErrors(t *testing.T) {
	_, err := ChunkFromTag(nbt.NewCompound())
	var notFound *nbt.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	root, err := NewChunk(0, 0).ToTag()
	require.NoError(t, err)
	level, err := root.Compound("Level")
	require.NoError(t, err)
	level.Set("Biomes", nbt.ByteArray{1, 2, 3})
	_, err = ChunkFromTag(root)
	assert.Error(t, err)
}
