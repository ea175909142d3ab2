package domain

import "strings"

// PackageOf returns the dotted namespace of a fully-qualified name.
// A bare identifier lives in the unnamed package "".
func PackageOf(fqn string) string {
	i := strings.LastIndexByte(fqn, '.')
	if i < 0 {
		return ""
	}
	return fqn[:i]
}

// SimpleName returns the last segment of a fully-qualified name.
func SimpleName(fqn string) string {
	return fqn[strings.LastIndexByte(fqn, '.')+1:]
}

// Relative returns the part of fqn below top, without the joining dot.
// It reports false when fqn is not strictly nested under top.
func Relative(top, fqn string) (string, bool) {
	if len(fqn) <= len(top)+1 || !strings.HasPrefix(fqn, top) || fqn[len(top)] != '.' {
		return "", false
	}
	return fqn[len(top)+1:], true
}

// JoinFQN joins non-empty segments with dots.
func JoinFQN(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
}
