package formatting

import (
	"encoding/json"
	"fmt"
)

// PrettyJSON renders v as indented JSON, falling back to the default
// Go formatting when v cannot be marshaled.
func PrettyJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// Truncate shortens s to at most max bytes, appending "..." when cut.
func Truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
