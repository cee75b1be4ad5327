package formatter

import (
	"strconv"
	"unicode/utf16"
)

// FormatNumber converts an integer to a string with commas as thousands separators.
// Example: 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		s = s[1:]
	}

	le := len(s)
	if le <= 3 {
		if n < 0 {
			return "-" + s
		}
		return s
	}

	sepCount := (le - 1) / 3

	res := make([]byte, le+sepCount)

	j := len(res) - 1
	for i := le - 1; i >= 0; i-- {
		res[j] = s[i]
		j--
		if (le-i)%3 == 0 && i > 0 {
			res[j] = ','
			j--
		}
	}

	if n < 0 {
		return "-" + string(res)
	}
	return string(res)
}

// UTF16Len counts s in UTF-16 code units, the unit Telegram measures text in.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// TruncateUTF16 shortens s to at most max UTF-16 code units, ending with an
// ellipsis when cut.
func TruncateUTF16(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if UTF16Len(s) <= max {
		return s
	}

	budget := max - 1 // room for the ellipsis
	n := 0
	for i, r := range s {
		size := utf16.RuneLen(r)
		if n+size > budget {
			return s[:i] + "…"
		}
		n += size
	}
	return s
}
