package gameworld

import (
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-glowstone/nbt"
)

// ToTag renders the chunk as an NBT root compound holding a Level
// compound, the layout used for chunk files.
func (c *Chunk) ToTag() (*nbt.Compound, error) {
	sections, err := nbt.NewList(nbt.TagCompound)
	if err != nil {
		return nil, err
	}
	for y, s := range c.Sections {
		if s == nil {
			continue
		}
		t := nbt.NewCompound()
		t.Set("Y", nbt.Byte(y))
		t.Set("Blocks", nbt.ByteArray(append([]byte(nil), s.Blocks[:]...)))
		t.Set("Data", nbt.ByteArray(append([]byte(nil), s.Metadata[:]...)))
		t.Set("BlockLight", nbt.ByteArray(append([]byte(nil), s.BlockLight[:]...)))
		t.Set("SkyLight", nbt.ByteArray(append([]byte(nil), s.SkyLight[:]...)))
		if err := sections.Add(t); err != nil {
			return nil, err
		}
	}

	level := nbt.NewCompound()
	level.Set("xPos", nbt.Int(c.X))
	level.Set("zPos", nbt.Int(c.Z))
	level.Set("Biomes", nbt.ByteArray(append([]byte(nil), c.Biomes[:]...)))
	level.Set("Sections", sections)

	root := nbt.NewCompound()
	root.Set("Level", level)
	return root, nil
}

func copyArray(dst []byte, src *nbt.Compound, name string) error {
	b, err := src.ByteArray(name)
	if err != nil {
		return err
	}
	if len(b) != len(dst) {
		return errors.Errorf("%s: %d bytes, want %d", name, len(b), len(dst))
	}
	copy(dst, b)
	return nil
}

// ChunkFromTag reads a chunk written by ToTag.
func ChunkFromTag(root *nbt.Compound) (*Chunk, error) {
	level, err := root.Compound("Level")
	if err != nil {
		return nil, err
	}
	x, err := level.Int("xPos")
	if err != nil {
		return nil, err
	}
	z, err := level.Int("zPos")
	if err != nil {
		return nil, err
	}
	c := NewChunk(x, z)
	if err := copyArray(c.Biomes[:], level, "Biomes"); err != nil {
		return nil, err
	}

	sections, err := level.List("Sections")
	if err != nil {
		return nil, err
	}
	if sections.Len() > 0 && sections.ElemType() != nbt.TagCompound {
		return nil, errors.Errorf("sections are %s, want %s", sections.ElemType(), nbt.TagCompound)
	}
	for i := 0; i < sections.Len(); i++ {
		t := sections.At(i).(*nbt.Compound)
		y, err := t.Byte("Y")
		if err != nil {
			return nil, err
		}
		if y < 0 || int(y) >= SectionsPerChunk {
			return nil, errors.Errorf("section Y %d out of range", y)
		}
		s := &Section{}
		for _, a := range []struct {
			name string
			dst  []byte
		}{
			{"Blocks", s.Blocks[:]},
			{"Data", s.Metadata[:]},
			{"BlockLight", s.BlockLight[:]},
			{"SkyLight", s.SkyLight[:]},
		} {
			if err := copyArray(a.dst, t, a.name); err != nil {
				return nil, errors.Wrapf(err, "section %d", y)
			}
		}
		c.Sections[y] = s
	}
	return c, nil
}
