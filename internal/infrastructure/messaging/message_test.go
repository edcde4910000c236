package messaging

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageCarriesProfileEvent(t *testing.T) {
	evt := &ProfileEventMessage{
		EventID:       "evt-1",
		EventType:     EventProfileCreated,
		ProfileID:     "bazi_1",
		UserID:        "user-1",
		DayPillar:     "丙寅",
		StrengthLabel: "身强",
		OccurredAt:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	msg, err := NewMessage(evt.EventID, evt.EventType, evt.UserID, evt.ProfileID, evt)
	require.NoError(t, err)
	assert.Equal(t, EventProfileCreated, msg.Type)
	assert.Equal(t, "bazi_1", msg.ProfileID)

	var decoded ProfileEventMessage
	require.NoError(t, msg.UnmarshalPayload(&decoded))
	assert.Equal(t, *evt, decoded)

	// 整条消息可以序列化后放入流
	_, err = json.Marshal(msg)
	require.NoError(t, err)
}

func TestMessageMetadata(t *testing.T) {
	msg := &Message{}
	assert.Empty(t, msg.GetMetadata("request_id"))
	msg.SetMetadata("request_id", "req-1")
	assert.Equal(t, "req-1", msg.GetMetadata("request_id"))
}
