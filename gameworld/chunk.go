package gameworld

import (
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-glowstone/message"
)

const (
	SectionsPerChunk = 16
	// SectionHeight is also the width and depth of a section.
	SectionHeight = 16
	WorldHeight   = SectionsPerChunk * SectionHeight

	sectionVolume = SectionHeight * SectionHeight * SectionHeight
	nibbleLen     = sectionVolume / 2
	biomeLen      = SectionHeight * SectionHeight
)

// Section is a 16x16x16 cube of a chunk column. Metadata and the two light
// arrays hold one nibble per block, low nibble first.
type Section struct {
	Blocks     [sectionVolume]byte
	Metadata   [nibbleLen]byte
	BlockLight [nibbleLen]byte
	SkyLight   [nibbleLen]byte
}

func sectionIndex(x, y, z int) int {
	return y<<8 | z<<4 | x
}

func nibble(arr []byte, i int) byte {
	if i&1 == 0 {
		return arr[i>>1] & 0x0f
	}
	return arr[i>>1] >> 4
}

func setNibble(arr []byte, i int, v byte) {
	if i&1 == 0 {
		arr[i>>1] = arr[i>>1]&0xf0 | v&0x0f
	} else {
		arr[i>>1] = arr[i>>1]&0x0f | v<<4
	}
}

// Empty reports whether the section has only air.
func (s *Section) Empty() bool {
	for _, b := range s.Blocks {
		if b != 0 {
			return false
		}
	}
	return true
}

// Chunk is a column of sections at chunk coordinates X, Z. Sections that
// are nil are all air and are not sent.
type Chunk struct {
	X, Z     int32
	Sections [SectionsPerChunk]*Section
	Biomes   [biomeLen]byte
}

func NewChunk(x, z int32) *Chunk {
	return &Chunk{X: x, Z: z}
}

func checkCoords(x, y, z int) error {
	if x < 0 || x >= SectionHeight || z < 0 || z >= SectionHeight || y < 0 || y >= WorldHeight {
		return errors.Errorf("block %d,%d,%d outside of chunk", x, y, z)
	}
	return nil
}

// Block returns the type and metadata of the block at chunk-relative
// coordinates.
func (c *Chunk) Block(x, y, z int) (id, meta byte) {
	if checkCoords(x, y, z) != nil {
		return 0, 0
	}
	s := c.Sections[y/SectionHeight]
	if s == nil {
		return 0, 0
	}
	i := sectionIndex(x, y%SectionHeight, z)
	return s.Blocks[i], nibble(s.Metadata[:], i)
}

// SetBlock places a block, creating its section if needed.
func (c *Chunk) SetBlock(x, y, z int, id, meta byte) error {
	if err := checkCoords(x, y, z); err != nil {
		return err
	}
	s := c.Sections[y/SectionHeight]
	if s == nil {
		if id == 0 {
			return nil
		}
		s = &Section{}
		c.Sections[y/SectionHeight] = s
	}
	i := sectionIndex(x, y%SectionHeight, z)
	s.Blocks[i] = id
	setNibble(s.Metadata[:], i, meta)
	return nil
}

// SetSkyLight sets the sky light of an existing section's block.
func (c *Chunk) SetSkyLight(x, y, z int, level byte) {
	if checkCoords(x, y, z) != nil {
		return
	}
	if s := c.Sections[y/SectionHeight]; s != nil {
		setNibble(s.SkyLight[:], sectionIndex(x, y%SectionHeight, z), level)
	}
}

// Message builds the full-column chunk data message. Sections are grouped
// by array: all block types first, then metadata, block light, sky light,
// and finally biomes.
func (c *Chunk) Message() message.ChunkData {
	var mask uint16
	n := 0
	for i, s := range c.Sections {
		if s != nil {
			mask |= 1 << uint(i)
			n++
		}
	}
	data := make([]byte, 0, n*(sectionVolume+3*nibbleLen)+biomeLen)
	for _, s := range c.Sections {
		if s != nil {
			data = append(data, s.Blocks[:]...)
		}
	}
	for _, s := range c.Sections {
		if s != nil {
			data = append(data, s.Metadata[:]...)
		}
	}
	for _, s := range c.Sections {
		if s != nil {
			data = append(data, s.BlockLight[:]...)
		}
	}
	for _, s := range c.Sections {
		if s != nil {
			data = append(data, s.SkyLight[:]...)
		}
	}
	data = append(data, c.Biomes[:]...)

	return message.ChunkData{
		X:           c.X,
		Z:           c.Z,
		Continuous:  true,
		PrimaryMask: mask,
		Data:        data,
	}
}

// ChunkFromMessage reverses Message, for full columns with sky light.
func ChunkFromMessage(m message.ChunkData) (*Chunk, error) {
	c := NewChunk(m.X, m.Z)
	n := 0
	for i := 0; i < SectionsPerChunk; i++ {
		if m.PrimaryMask&(1<<uint(i)) != 0 {
			c.Sections[i] = &Section{}
			n++
		}
	}
	want := n * (sectionVolume + 3*nibbleLen)
	if m.Continuous {
		want += biomeLen
	}
	if len(m.Data) != want {
		return nil, errors.Errorf("chunk %d,%d: payload is %d bytes, want %d", m.X, m.Z, len(m.Data), want)
	}
	data := m.Data
	take := func(dst []byte) {
		copy(dst, data)
		data = data[len(dst):]
	}
	for _, s := range c.Sections {
		if s != nil {
			take(s.Blocks[:])
		}
	}
	for _, s := range c.Sections {
		if s != nil {
			take(s.Metadata[:])
		}
	}
	for _, s := range c.Sections {
		if s != nil {
			take(s.BlockLight[:])
		}
	}
	for _, s := range c.Sections {
		if s != nil {
			take(s.SkyLight[:])
		}
	}
	if m.Continuous {
		take(c.Biomes[:])
	}
	return c, nil
}
