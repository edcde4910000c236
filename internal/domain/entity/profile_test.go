package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGender(t *testing.T) {
	for _, in := range []string{"male", "Female", " other "} {
		g, ok := ParseGender(in)
		assert.True(t, ok, in)
		assert.NotEmpty(t, g)
	}
	_, ok := ParseGender("unknown")
	assert.False(t, ok)
}

func TestNewProfileID(t *testing.T) {
	id, err := NewProfileID()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(id, "bazi_"))

	parsed, err := uuid.Parse(strings.TrimPrefix(id, "bazi_"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestProfileCooldown(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p, err := NewBaziProfile("user-1", "Alice", now)
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.True(t, p.OwnedBy("user-1"))
	assert.False(t, p.OwnedBy("user-2"))

	// 从未修改过，可以立即修改
	assert.True(t, p.CanModify(now, 24*time.Hour))
	assert.True(t, p.CooldownEndsAt(24*time.Hour).IsZero())

	p.MarkModified(now)
	assert.Equal(t, now.Add(24*time.Hour), p.CooldownEndsAt(24*time.Hour))
	assert.False(t, p.CanModify(now.Add(23*time.Hour), 24*time.Hour))
	assert.True(t, p.CanModify(now.Add(24*time.Hour), 24*time.Hour))
}
