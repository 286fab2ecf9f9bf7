package csv

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// stripBOM wraps r so that a leading byte-order mark is consumed. A UTF-8 BOM
// is dropped; a UTF-16 BOM switches decoding to UTF-16 so spreadsheet exports
// in either encoding arrive as UTF-8. Input without a BOM passes through.
func stripBOM(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(transform.Nop))
}
