// internal/fetch/charset.go
//
// Decodes a fetched body to text using the server-advertised charset
// when present. With no declared charset, a body that is ASCII or valid
// UTF-8 is kept as UTF-8 and any other body is decoded as windows-1252.
// Decoding errors are replaced with U+FFFD rather than raised.
package fetch

import (
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// decodeBody converts raw into text, honoring contentType's charset
// parameter when present (via golang.org/x/net/html/charset, which also
// sniffs a BOM or a <meta charset> declaration from the first KB of HTML
// when the header is silent). With none of those, the first KB decides:
// ASCII or valid UTF-8 is kept as UTF-8, anything else is decoded as
// windows-1252. Invalid UTF-8 sequences become U+FFFD.
func decodeBody(raw []byte, contentType string) string {
	enc, _, _ := charset.DetermineEncoding(raw, contentType)
	if enc == encoding.Nop || isUTF8(enc) {
		return strings.ToValidUTF8(string(raw), "�")
	}

	reader := transform.NewReader(strings.NewReader(string(raw)), enc.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		// DetermineEncoding guarantees a best-effort transcoder; any
		// residual error here still yields the bytes read so far.
		if len(decoded) > 0 {
			return string(decoded)
		}
		return string(raw)
	}
	return string(decoded)
}

func isUTF8(enc encoding.Encoding) bool {
	return enc == encoding.Nop || encodingName(enc) == "utf-8"
}

func encodingName(enc encoding.Encoding) string {
	type namer interface{ String() string }
	if n, ok := enc.(namer); ok {
		return strings.ToLower(n.String())
	}
	return ""
}
