package enum

import "fmt"

// lookup resolves a wire name against an enum's name table. Index 0 is the
// unset value and never matches.
func lookup(kind string, names []string, str string) (int, error) {
	for i := 1; i < len(names); i++ {
		if names[i] == str {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid %s %q", kind, str)
}

func nameOf(names []string, i int) string {
	if i <= 0 || i >= len(names) {
		return ""
	}
	return names[i]
}

func scanInt(value interface{}) int {
	switch v := value.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case int32:
		return int(v)
	}
	return 0
}
