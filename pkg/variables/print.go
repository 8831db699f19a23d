package variables

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Environ returns the flattened context as KEY=VALUE pairs, sorted by key.
// Nested keys use '_' instead of the delimiter so the result is a valid
// shell environment for action execution.
func (c *Context) Environ() []string {
	flat := c.Flat()
	pairs := make([]string, 0, len(flat))
	for key, value := range flat {
		name := strings.ReplaceAll(key, Delim, "_")
		pairs = append(pairs, fmt.Sprintf("%s=%v", name, value))
	}
	sort.Strings(pairs)
	return pairs
}

// Fprint writes the resolved context to w, nested tables indented
func (c *Context) Fprint(w io.Writer) {
	printMap(w, c.Map(), 1)
}

func printMap(w io.Writer, m map[string]interface{}, level int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	indent := strings.Repeat("  ", level)
	for _, key := range keys {
		switch value := m[key].(type) {
		case map[string]interface{}:
			fmt.Fprintf(w, "%s%s =\n", indent, key)
			printMap(w, value, level+1)
		case []interface{}:
			fmt.Fprintf(w, "%s%s = [\n", indent, key)
			for _, item := range value {
				fmt.Fprintf(w, "%s  - %v\n", indent, item)
			}
			fmt.Fprintf(w, "%s]\n", indent)
		default:
			fmt.Fprintf(w, "%s%s = %v\n", indent, key, value)
		}
	}
}
