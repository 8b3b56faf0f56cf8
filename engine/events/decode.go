package events

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
)

// Decode parses a lookup event message. It reports false for bodies that are
// not JSON or carry no kind.
func Decode(msg *nats.Msg) (Lookup, bool) {
	var ev Lookup
	if err := json.Unmarshal(msg.Data, &ev); err != nil || ev.Kind == "" {
		return Lookup{}, false
	}
	return ev, true
}
