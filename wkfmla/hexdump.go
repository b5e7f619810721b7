package wkfmla

import (
	"fmt"
	"io"
	"strings"
)

// HexCharDump writes data[ofs:ofs+dlen] to w, 16 bytes per line, as hex and
// as characters. NUL shows as '~' and other unprintable bytes as '?'. Unless
// unnumbered is set each line starts with its offset plus base.
func HexCharDump(data []byte, ofs, dlen, base int, w io.Writer, unnumbered bool) {
	endpos := ofs + dlen
	if endpos > len(data) {
		endpos = len(data)
	}
	for pos := ofs; pos < endpos; pos += 16 {
		endsub := pos + 16
		if endsub > endpos {
			endsub = endpos
		}
		var hexd, chard strings.Builder
		for _, c := range data[pos:endsub] {
			fmt.Fprintf(&hexd, "%02x ", c)
			switch {
			case c == 0:
				chard.WriteByte('~')
			case c < ' ' || c > '~':
				chard.WriteByte('?')
			default:
				chard.WriteByte(c)
			}
		}
		prefix := ""
		if !unnumbered {
			prefix = fmt.Sprintf("%5d: ", base+pos-ofs)
		}
		fmt.Fprintf(w, "%s     %-48s %s\n", prefix, hexd.String(), chard.String())
	}
}
