package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	textencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sampleSize is how much of the input Detect gets to look at.
const sampleSize = 4096

// Charset names an encoding NewUTF8Reader knows how to decode.
type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF8BOM     Charset = "UTF-8-BOM"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO8859_9   Charset = "ISO-8859-9"
	ISO8859_15  Charset = "ISO-8859-15"
)

var boms = []struct {
	prefix  []byte
	charset Charset
}{
	{prefix: []byte{0xEF, 0xBB, 0xBF}, charset: UTF8BOM},
	{prefix: []byte{0xFF, 0xFE}, charset: UTF16LE},
	{prefix: []byte{0xFE, 0xFF}, charset: UTF16BE},
}

// Detect guesses the charset of sample: byte order marks win, then valid UTF-8, then chardet.
// Anything chardet cannot place is treated as Windows-1252, the usual spreadsheet export.
func Detect(sample []byte) Charset {
	for _, b := range boms {
		if bytes.HasPrefix(sample, b.prefix) {
			return b.charset
		}
	}

	if utf8.Valid(sample) {
		return UTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return Windows1252
	}

	switch result.Charset {
	case "UTF-8":
		return UTF8
	case "ISO-8859-9":
		return ISO8859_9
	case "ISO-8859-15":
		return ISO8859_15
	default:
		return Windows1252
	}
}

func decoderFor(c Charset) *textencoding.Decoder {
	switch c {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case Windows1252:
		return charmap.Windows1252.NewDecoder()
	case ISO8859_9:
		return charmap.ISO8859_9.NewDecoder()
	case ISO8859_15:
		return charmap.ISO8859_15.NewDecoder()
	default:
		return nil
	}
}

// NewUTF8Reader returns r decoded to UTF-8 with any UTF-8 byte order mark removed.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sampleSize)

	sample, err := br.Peek(sampleSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	charset := Detect(sample)
	if charset == UTF8BOM {
		_, _ = br.Discard(len(boms[0].prefix))
		return br, nil
	}

	dec := decoderFor(charset)
	if dec == nil {
		return br, nil
	}

	return transform.NewReader(br, dec), nil
}
