package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/constable/internal/update"
)

// ParsePath parses a path expression like ".items[0].qty" into literal
// steps. "" and "." address the root. Key segments run to the next '.' or
// '['; index segments are non-negative decimal integers in brackets.
func ParsePath(s string) (update.Path, error) {
	orig := s
	s = strings.TrimPrefix(s, ".")
	if s == "" {
		return update.Path{}, nil
	}

	var path update.Path
	for len(s) > 0 {
		switch {
		case s[0] == '[':
			end := strings.IndexByte(s, ']')
			if end < 0 {
				return nil, fmt.Errorf("path %q: unterminated index", orig)
			}
			i, err := strconv.Atoi(s[1:end])
			if err != nil || i < 0 {
				return nil, fmt.Errorf("path %q: invalid index %q", orig, s[1:end])
			}
			path = append(path, update.IndexStep(i))
			s = s[end+1:]
		case s[0] == '.':
			s = s[1:]
			if s == "" {
				return nil, fmt.Errorf("path %q: trailing dot", orig)
			}
		default:
			end := strings.IndexAny(s, ".[")
			if end < 0 {
				end = len(s)
			}
			path = append(path, update.FieldStep(s[:end]))
			s = s[end:]
		}
	}
	return path, nil
}
