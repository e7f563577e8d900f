package dispatch

import (
	"strconv"
	"strings"
)

// matchPattern implements §4.5's verb-pattern grammar: literal words,
// `*` (captured positionally as "1", "2", …), `*name` (captured under
// "name"), and `...`/`*rest` (captures all remaining tokens joined by a
// single space). An empty pattern matches any remainder (it is not
// consulted). Matching is left-to-right and requires the input be fully
// consumed.
func matchPattern(pattern string, input []string) (map[string]string, bool) {
	if pattern == "" {
		return map[string]string{}, true
	}

	elements := strings.Fields(pattern)
	variables := make(map[string]string)
	pos := 0
	positional := 0

	for i, elem := range elements {
		switch {
		case elem == "..." || elem == "*rest":
			variables["rest"] = strings.Join(input[pos:], " ")
			return variables, i == len(elements)-1

		case elem == "*":
			if pos >= len(input) {
				return nil, false
			}
			positional++
			variables[strconv.Itoa(positional)] = input[pos]
			pos++

		case strings.HasPrefix(elem, "*") && len(elem) > 1:
			if pos >= len(input) {
				return nil, false
			}
			name := elem[1:]
			variables[name] = input[pos]
			pos++

		default:
			if pos >= len(input) || !strings.EqualFold(input[pos], elem) {
				return nil, false
			}
			pos++
		}
	}

	if pos != len(input) {
		return nil, false
	}
	return variables, true
}
