package mysql

import "encoding/json"

// jsonOrEmpty marshals v, falling back to an empty JSON object so the
// json-typed columns never receive invalid content.
func jsonOrEmpty(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil || len(b) == 0 {
		return []byte("{}")
	}
	return b
}

type rowScanner interface {
	Scan(dest ...any) error
}
