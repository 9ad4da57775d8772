// Package text holds string helpers for plugins: random strings, hashing,
// dedenting and CQ-code escaping.
package text

import (
	"crypto/md5"
	"encoding/hex"
	"math"
	"strings"
	"unicode"
)

const tabSize = 8

// MD5 returns the lowercase hex md5 digest of s.
func MD5(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Indent removes the common leading indentation from a multi-line string.
// The first line only loses its own leading whitespace, tabs are expanded, and
// blank lines at either end are dropped.
func Indent(s string) string {
	lines := strings.Split(expandTabs(s), "\n")

	margin := math.MaxInt
	for _, line := range lines[1:] {
		r := []rune(line)
		content := len([]rune(strings.TrimLeftFunc(line, unicode.IsSpace)))
		if content == 0 {
			continue
		}
		margin = min(margin, len(r)-content)
	}

	lines[0] = strings.TrimLeftFunc(lines[0], unicode.IsSpace)
	if margin < math.MaxInt {
		for i := 1; i < len(lines); i++ {
			r := []rune(lines[i])
			if len(r) > margin {
				lines[i] = string(r[margin:])
			} else {
				lines[i] = ""
			}
		}
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := tabSize - col%tabSize
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n', '\r':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}

var (
	cqEscaper          = strings.NewReplacer("&", "&amp;", "[", "&#91;", "]", "&#93;")
	cqEscaperWithComma = strings.NewReplacer("&", "&amp;", "[", "&#91;", "]", "&#93;", ",", "&#44;")
	cqUnescaper        = strings.NewReplacer("&#44;", ",", "&#91;", "[", "&#93;", "]", "&amp;", "&")
)

// Escape escapes CQ-code control characters in s. Commas are escaped only
// when escapeComma is set.
func Escape(s string, escapeComma bool) string {
	if escapeComma {
		return cqEscaperWithComma.Replace(s)
	}
	return cqEscaper.Replace(s)
}

// Unescape reverses Escape.
func Unescape(s string) string {
	return cqUnescaper.Replace(s)
}
