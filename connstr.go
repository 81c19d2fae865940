package nisar

import (
	"fmt"
	"strings"
)

const connPrefix = "NISAR:"

// parseConnString splits a connection identifier into the container
// reference and the optional internal object path. The reference may hold
// a scheme:// separator, which is not an internal-path separator, so the
// split happens at the last colon unless it introduces a scheme.
func parseConnString(conn string) (ref, internal string, err error) {
	s := strings.TrimSpace(conn)
	if len(s) >= len(connPrefix) && strings.EqualFold(s[:len(connPrefix)], connPrefix) {
		s = s[len(connPrefix):]
	}
	if s == "" {
		return "", "", fmt.Errorf("nisar: empty container reference in %q", conn)
	}

	i := strings.LastIndex(s, ":")
	if i < 0 || strings.HasPrefix(s[i+1:], "//") {
		return unquote(s), "", nil
	}
	if i == 0 {
		return "", "", fmt.Errorf("nisar: empty container reference in %q", conn)
	}
	return unquote(s[:i]), s[i+1:], nil
}

// unquote strips the quotes a listing entry wraps around references that
// contain colons themselves.
func unquote(ref string) string {
	if len(ref) >= 2 && ref[0] == '"' && ref[len(ref)-1] == '"' {
		return ref[1 : len(ref)-1]
	}
	return ref
}
