// Package encoding converts uploaded spreadsheet files to UTF-8.
// Bank and spreadsheet exports arrive in a mix of UTF-8, UTF-16 and
// legacy Windows codepages, often without any declared charset.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const peekSize = 4096

// NewUTF8Reader wraps r with a decoder for its detected encoding.
//
// Order: BOM first (UTF-8 BOM stripped, UTF-16 decoded), then a plain
// UTF-8 validity check, then chardet heuristics, and Windows-1252 as
// the last-resort fallback.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if out, ok := bomReader(br, head); ok {
		return out, nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	return heuristicReader(br, head), nil
}

// bomReader handles byte-order-mark prefixed input. Returns false when
// no BOM is present.
func bomReader(br *bufio.Reader, head []byte) (io.Reader, bool) {
	switch {
	case bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}):
		_, _ = br.Discard(3)
		return br, true
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, dec), true
	case bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, dec), true
	}

	return nil, false
}

func heuristicReader(br *bufio.Reader, head []byte) io.Reader {
	if result, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		switch result.Charset {
		case "UTF-8":
			return br
		case "ISO-8859-9":
			return transform.NewReader(br, charmap.ISO8859_9.NewDecoder())
		}
	}

	// Windows-1252 is a superset of ISO-8859-1 and decodes every byte,
	// so it is the safe fallback.
	return transform.NewReader(br, charmap.Windows1252.NewDecoder())
}
