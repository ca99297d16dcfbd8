package nbt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Format writes a readable rendering of a tag tree, one tag per line.
// Arrays longer than 16 elements are summarised by their length.
func Format(w io.Writer, name string, root Tag) error {
	bw := bufio.NewWriter(w)
	format(bw, fmt.Sprintf("%q", name), root, 0)
	return bw.Flush()
}

const maxFormattedArray = 16

func format(w *bufio.Writer, label string, t Tag, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s(%s): ", indent, t.Type(), label)
	switch v := t.(type) {
	case *Compound:
		fmt.Fprintf(w, "%d entries\n%s{\n", v.Len(), indent)
		for _, n := range v.names {
			format(w, fmt.Sprintf("%q", n), v.tags[n], depth+1)
		}
		fmt.Fprintf(w, "%s}\n", indent)
	case *List:
		fmt.Fprintf(w, "%d entries of %s\n%s{\n", v.Len(), v.ElemType(), indent)
		for i, e := range v.elems {
			format(w, fmt.Sprint(i), e, depth+1)
		}
		fmt.Fprintf(w, "%s}\n", indent)
	case ByteArray:
		if len(v) > maxFormattedArray {
			fmt.Fprintf(w, "[%d bytes]\n", len(v))
		} else {
			fmt.Fprintf(w, "% x\n", []byte(v))
		}
	case IntArray:
		if len(v) > maxFormattedArray {
			fmt.Fprintf(w, "[%d ints]\n", len(v))
		} else {
			fmt.Fprintf(w, "%v\n", []int32(v))
		}
	case String:
		fmt.Fprintf(w, "%q\n", string(v))
	default:
		fmt.Fprintf(w, "%v\n", v)
	}
}
