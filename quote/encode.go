package quote

import "strings"

const upperhex = "0123456789ABCDEF"

// EncodeURIComponent percent-encodes s exactly like ECMAScript's
// encodeURIComponent: every UTF-8 byte is escaped except the letters, the
// digits and - _ . ! ~ * ' ( ).
//
// url.QueryEscape turns spaces into '+' and url.PathEscape keeps sub-delims
// such as '&' and '=', so neither produces links the contact channels accept.
func EncodeURIComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0F])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
