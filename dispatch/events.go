package dispatch

import "encoding/json"

// Decoder converts a raw gateway payload into a typed event. Unknown
// tags must decode to a raw map rather than fail; a decode error for a
// known tag makes the dispatcher fall back to raw delivery.
type Decoder interface {
	Decode(eventType string, data json.RawMessage) (any, error)
}

// eventKeys maps gateway wire tags to the handler keys callers register
// under. Tags absent from this table dispatch under the wire tag
// itself, so new platform event types reach handlers without a client
// upgrade.
var eventKeys = map[string]string{
	"ready":            "ready",
	"message_created":  "message",
	"message_updated":  "message_update",
	"message_deleted":  "message_delete",
	"reaction_added":   "reaction_add",
	"reaction_removed": "reaction_remove",
	"typing":           "typing",
	"presence_updated": "presence",
	"member_joined":    "member_join",
	"member_left":      "member_leave",
	"channel_created":  "channel_create",
	"channel_updated":  "channel_update",
	"channel_deleted":  "channel_delete",
}

// HandlerKey returns the registration key for a wire tag. Unknown tags
// map to themselves.
func HandlerKey(wireTag string) string {
	if key, ok := eventKeys[wireTag]; ok {
		return key
	}
	return wireTag
}
