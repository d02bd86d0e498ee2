package display

import (
	"encoding/json"
)

// MarshalJSON marshals v with indentation. Summaries are small and read by
// people as often as by scripts.
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
