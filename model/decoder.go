package model

import (
	"encoding/json"
	"fmt"
)

// Event payloads that are not full entities. Deletion and presence
// events carry only identifiers on the wire.

// Ready is the synthetic event fired after every successful
// authentication, including re-authentication after a reconnect.
type Ready struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id,omitempty"`
}

// MessageDelete announces a removed message.
type MessageDelete struct {
	MessageID string `json:"message_id"`
	ChannelID string `json:"channel_id"`
	SpaceID   string `json:"space_id,omitempty"`
}

// ReactionChange announces an added or removed reaction.
type ReactionChange struct {
	MessageID string `json:"message_id"`
	ChannelID string `json:"channel_id"`
	SpaceID   string `json:"space_id,omitempty"`
	Emoji     string `json:"emoji"`
	UserID    string `json:"user_id"`
}

// TypingIndicator announces that a user started typing in a channel.
type TypingIndicator struct {
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id"`
}

// PresenceUpdate announces a presence or status change for a user.
type PresenceUpdate struct {
	UserID       string `json:"user_id"`
	Presence     string `json:"presence"`
	CustomStatus string `json:"custom_status,omitempty"`
}

// MemberLeave announces a member leaving or being removed from a space.
type MemberLeave struct {
	SpaceID string `json:"space_id"`
	UserID  string `json:"user_id"`
}

// ChannelDelete announces a removed channel.
type ChannelDelete struct {
	SpaceID   string `json:"space_id,omitempty"`
	ChannelID string `json:"channel_id"`
}

// Decoder converts raw gateway payloads into typed events. Tags without
// a typed representation decode to a raw map and never fail.
type Decoder struct{}

// Decode returns the typed event for a known wire tag, or a
// map[string]any for tags it does not recognize. An error is returned
// only when the payload for a known tag does not unmarshal; callers
// should fall back to raw delivery in that case.
func (Decoder) Decode(eventType string, data json.RawMessage) (any, error) {
	switch eventType {
	case "ready":
		return decodeAs[Ready](eventType, data)
	case "message_created", "message_updated":
		return decodeAs[*Message](eventType, data)
	case "message_deleted":
		return decodeAs[MessageDelete](eventType, data)
	case "reaction_added", "reaction_removed":
		return decodeAs[ReactionChange](eventType, data)
	case "typing":
		return decodeAs[TypingIndicator](eventType, data)
	case "presence_updated":
		return decodeAs[PresenceUpdate](eventType, data)
	case "member_joined":
		return decodeAs[*Member](eventType, data)
	case "member_left":
		return decodeAs[MemberLeave](eventType, data)
	case "channel_created", "channel_updated":
		return decodeAs[*Channel](eventType, data)
	case "channel_deleted":
		return decodeAs[ChannelDelete](eventType, data)
	}
	return RawMap(data), nil
}

func decodeAs[T any](eventType string, data json.RawMessage) (any, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", eventType, err)
	}
	return v, nil
}

// RawMap converts a raw payload into a map, returning an empty map for
// payloads that are absent or not JSON objects.
func RawMap(data json.RawMessage) map[string]any {
	m := map[string]any{}
	if len(data) > 0 {
		_ = json.Unmarshal(data, &m)
	}
	return m
}
