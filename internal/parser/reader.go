package parser

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Older PGN archives are commonly Latin-1 or Windows-1252 rather than
// UTF-8; player names then carry bytes that corrupt downstream UTF-8
// handling unless decoded at the boundary.

// NewLatin1Reader decodes ISO 8859-1 input to UTF-8.
func NewLatin1Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
}

// NewDecodingReader decodes input in a named legacy encoding to UTF-8.
// Supported names: utf-8, latin-1, windows-1252.
func NewDecodingReader(r io.Reader, name string) (io.Reader, error) {
	var enc *charmap.Charmap
	switch name {
	case "", "utf-8", "utf8":
		return r, nil
	case "latin-1", "latin1", "iso-8859-1":
		enc = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	default:
		return nil, fmt.Errorf("unknown input encoding %q", name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
