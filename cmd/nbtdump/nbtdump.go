// Command nbtdump prints NBT files in a readable form.
//
// With -chunk, files are also decoded as stored chunks and summarized.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"

	"badc0de.net/pkg/go-glowstone/gameworld"
	"badc0de.net/pkg/go-glowstone/nbt"
)

var chunk = flag.Bool("chunk", false, "summarize files as stored chunks")

func main() {
	flagutil.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: nbtdump [-chunk] file...")
		os.Exit(2)
	}
	failed := false
	for _, path := range flag.Args() {
		if err := dump(os.Stdout, path, *chunk); err != nil {
			glog.Errorf("%s: %v", path, err)
			failed = true
		}
	}
	glog.Flush()
	if failed {
		os.Exit(1)
	}
}

func dump(w io.Writer, path string, asChunk bool) error {
	name, root, err := nbt.ReadFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "# %s\n", path)
	if err := nbt.Format(w, name, root); err != nil {
		return err
	}
	if !asChunk {
		return nil
	}
	c, err := gameworld.ChunkFromTag(root)
	if err != nil {
		return err
	}
	sections, blocks := 0, 0
	for _, s := range c.Sections {
		if s == nil {
			continue
		}
		sections++
		for _, id := range s.Blocks {
			if id != gameworld.BlockAir {
				blocks++
			}
		}
	}
	fmt.Fprintf(w, "chunk %d,%d: %d sections, %d blocks\n", c.X, c.Z, sections, blocks)
	return nil
}
