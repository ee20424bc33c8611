package i18n

import (
	"fmt"
	"maps"
	"strings"
)

// ReplacePlaceholders substitutes %{name} markers with values from placeholders.
// Unknown markers are left as-is.
func ReplacePlaceholders(template string, placeholders M) string {
	if len(placeholders) == 0 {
		return template
	}
	pairs := make([]string, 0, len(placeholders)*2)
	for key, value := range placeholders {
		pairs = append(pairs, "%{"+key+"}", fmt.Sprint(value))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func replacePlaceholders(template string, placeholders ...M) string {
	if len(placeholders) == 0 {
		return template
	}
	merged := make(M)
	for _, p := range placeholders {
		maps.Copy(merged, p)
	}
	return ReplacePlaceholders(template, merged)
}

// flatten turns nested maps into dot-separated keys.
func flatten(data map[string]any, prefix string) map[string]string {
	result := make(map[string]string)
	for key, value := range data {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case string:
			result[full] = v
		case map[string]any:
			maps.Copy(result, flatten(v, full))
		case map[string]string:
			for sub, s := range v {
				result[full+"."+sub] = s
			}
		default:
			result[full] = fmt.Sprint(v)
		}
	}
	return result
}
