package matching

import "strings"

// soundexGroups maps consonants to their Soundex digit. Vowels, H, W
// and Y carry no digit.
var soundexGroups = map[byte]byte{
	'B': '1', 'F': '1', 'P': '1', 'V': '1',
	'C': '2', 'G': '2', 'J': '2', 'K': '2', 'Q': '2', 'S': '2', 'X': '2', 'Z': '2',
	'D': '3', 'T': '3',
	'L': '4',
	'M': '5', 'N': '5',
	'R': '6',
}

// Soundex returns the four-character Soundex code of a name, letting
// player searches tolerate transliteration differences such as
// Kasparov against Kasparow.
func Soundex(name string) string {
	upper := strings.ToUpper(name)
	var code strings.Builder
	var prev byte

	for i := 0; i < len(upper) && code.Len() < 4; i++ {
		c := upper[i]
		if c < 'A' || c > 'Z' {
			prev = 0
			continue
		}
		digit := soundexGroups[c]
		if code.Len() == 0 {
			code.WriteByte(c)
		} else if digit != 0 && digit != prev {
			code.WriteByte(digit)
		}
		prev = digit
	}
	if code.Len() == 0 {
		return "0000"
	}
	for code.Len() < 4 {
		code.WriteByte('0')
	}
	return code.String()
}
