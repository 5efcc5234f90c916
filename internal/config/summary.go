package config

import (
	"encoding/json"
)

// Summary describes the shape of a configuration blob for diagnostics only.
type Summary struct {
	JSON          bool
	HasPrivateKey bool
	HasArcSession bool
}

// Summarize peeks at the top-level keys of the blob without keeping any
// values. It never fails; a blob that is not a JSON object yields JSON=false.
func Summarize(b *Blob) Summary {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b.data, &keys); err != nil {
		return Summary{}
	}
	_, hasKey := keys["privateKey"]
	_, hasSession := keys["arcSessionStatus"]
	return Summary{JSON: true, HasPrivateKey: hasKey, HasArcSession: hasSession}
}
