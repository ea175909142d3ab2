// Package properties implements a producer strategy for .properties files.
// Dotted keys form nested groups that are rendered as Go constants.
package properties

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// Entry is a key and its value as written in the file.
type Entry struct {
	Key   string
	Value string
	Line  int
}

// Issue is a malformed line found while parsing.
type Issue struct {
	Line    int
	Message string
}

// Parse reads properties text. Lines starting with '#' or '!' are comments, a
// trailing backslash continues the logical line, and the key ends at the first
// unescaped '=', ':' or whitespace. Later duplicates are returned as well.
func Parse(content string) ([]Entry, []Issue) {
	var (
		entries []Entry
		issues  []Issue
	)

	lines := strings.Split(content, "\n")
	for i := 0; i < len(lines); i++ {
		start := i + 1
		line := strings.TrimLeft(lines[i], " \t\f")
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}

		for continues(line) && i+1 < len(lines) {
			i++
			line = line[:len(line)-1] + strings.TrimLeft(lines[i], " \t\f")
		}
		if continues(line) {
			line = line[:len(line)-1]
		}

		key, value, err := splitLine(line)
		if err != "" {
			issues = append(issues, Issue{Line: start, Message: err})
			continue
		}
		entries = append(entries, Entry{Key: key, Value: value, Line: start})
	}
	return entries, issues
}

// continues reports whether line ends in an odd number of backslashes.
func continues(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func splitLine(line string) (key, value, issue string) {
	end := len(line)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '\\' {
			i++
			continue
		}
		if c == '=' || c == ':' || c == ' ' || c == '\t' || c == '\f' {
			end = i
			break
		}
	}

	key, issue = unescape(line[:end])
	if issue != "" {
		return "", "", issue
	}
	if key == "" {
		return "", "", "missing key"
	}

	rest := strings.TrimLeft(line[end:], " \t\f")
	if rest != "" && (rest[0] == '=' || rest[0] == ':') {
		rest = strings.TrimLeft(rest[1:], " \t\f")
	}
	value, issue = unescape(rest)
	return key, value, issue
}

func unescape(s string) (string, string) {
	if !strings.Contains(s, `\`) {
		return s, ""
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			r, issue := hexRune(s, i-1)
			if issue != "" {
				return "", issue
			}
			i += 4
			if utf16.IsSurrogate(r) {
				low, issue := hexRune(s, i+1)
				if r >= 0xDC00 || issue != "" || !utf16.IsSurrogate(low) || low < 0xDC00 {
					return "", "unpaired surrogate " + strconv.Quote(s[i-5:i+1])
				}
				r = utf16.DecodeRune(r, low)
				i += 6
			}
			b.WriteRune(r)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String(), ""
}

// hexRune decodes the \uXXXX escape starting at s[at].
func hexRune(s string, at int) (rune, string) {
	if at+6 > len(s) || s[at] != '\\' || s[at+1] != 'u' {
		return 0, "truncated unicode escape"
	}
	r, err := strconv.ParseUint(s[at+2:at+6], 16, 32)
	if err != nil {
		return 0, "malformed unicode escape " + strconv.Quote(s[at:at+6])
	}
	return rune(r), ""
}
