package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMessageCreated(t *testing.T) {
	payload := json.RawMessage(`{
		"id": "m1",
		"channel_id": "c1",
		"space_id": "s1",
		"content": "hello there",
		"author": {"id": "u1", "username": "kira"},
		"created_at": "2026-08-30T12:00:00Z"
	}`)

	ev, err := Decoder{}.Decode("message_created", payload)
	require.NoError(t, err)

	msg, ok := ev.(*Message)
	require.True(t, ok)
	assert.Equal(t, "m1", msg.ID)
	assert.Equal(t, "hello there", msg.Content)
	assert.Equal(t, "kira", msg.Author.Username)
	require.NotNil(t, msg.CreatedAt)
	assert.Equal(t, 2026, msg.CreatedAt.Year())
}

func TestDecodeReady(t *testing.T) {
	ev, err := Decoder{}.Decode("ready", json.RawMessage(`{"user_id": "bot-1", "session_id": "sess-9"}`))
	require.NoError(t, err)

	ready, ok := ev.(Ready)
	require.True(t, ok)
	assert.Equal(t, "bot-1", ready.UserID)
	assert.Equal(t, "sess-9", ready.SessionID)
}

func TestDecodeDeletionEvents(t *testing.T) {
	ev, err := Decoder{}.Decode("message_deleted", json.RawMessage(`{"message_id": "m1", "channel_id": "c1"}`))
	require.NoError(t, err)
	del, ok := ev.(MessageDelete)
	require.True(t, ok)
	assert.Equal(t, "m1", del.MessageID)

	ev, err = Decoder{}.Decode("channel_deleted", json.RawMessage(`{"channel_id": "c1", "space_id": "s1"}`))
	require.NoError(t, err)
	chDel, ok := ev.(ChannelDelete)
	require.True(t, ok)
	assert.Equal(t, "c1", chDel.ChannelID)
}

func TestDecodeReactionChange(t *testing.T) {
	for _, tag := range []string{"reaction_added", "reaction_removed"} {
		ev, err := Decoder{}.Decode(tag, json.RawMessage(`{"message_id": "m1", "channel_id": "c1", "emoji": "🔥", "user_id": "u2"}`))
		require.NoError(t, err, tag)
		rc, ok := ev.(ReactionChange)
		require.True(t, ok, tag)
		assert.Equal(t, "🔥", rc.Emoji)
		assert.Equal(t, "u2", rc.UserID)
	}
}

func TestDecodeUnknownTagReturnsRawMap(t *testing.T) {
	ev, err := Decoder{}.Decode("flurble_spawned", json.RawMessage(`{"flurble_id": "f1", "size": 3}`))
	require.NoError(t, err)

	m, ok := ev.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "f1", m["flurble_id"])
	assert.Equal(t, float64(3), m["size"])
}

func TestDecodeKnownTagBadPayload(t *testing.T) {
	_, err := Decoder{}.Decode("message_created", json.RawMessage(`"not an object"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message_created")
}

func TestRawMap(t *testing.T) {
	assert.Equal(t, map[string]any{"k": "v"}, RawMap(json.RawMessage(`{"k": "v"}`)))
	assert.Empty(t, RawMap(nil))
	assert.Empty(t, RawMap(json.RawMessage(`[1, 2]`)))
}

func TestMessageRoundTripOptionalFields(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "m2",
		"channel_id": "c1",
		"content": "edited",
		"author": {"id": "u1", "username": "kira"},
		"reply_to": "m1",
		"edited_at": "2026-08-30T13:00:00Z",
		"reactions": [{"emoji": "👍", "count": 2, "user_reacted": true}]
	}`)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "m1", msg.ReplyTo)
	require.NotNil(t, msg.EditedAt)
	require.Len(t, msg.Reactions, 1)
	assert.Equal(t, 2, msg.Reactions[0].Count)
	assert.True(t, msg.Reactions[0].UserReacted)
}
