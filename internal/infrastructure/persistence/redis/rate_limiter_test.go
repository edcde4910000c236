package redis

import (
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestBuildRateLimitKey(t *testing.T) {
	assert.Equal(t, "octa:bazi:ratelimit:10.0.0.1:/v1/bazi/chart",
		BuildRateLimitKey("octa:bazi", "10.0.0.1", "/v1/bazi/chart"))
	assert.Equal(t, "ratelimit:u-1:/v1/profiles",
		BuildRateLimitKey("", "u-1", "/v1/profiles"))
}

func TestIsNil(t *testing.T) {
	assert.True(t, IsNil(redis.Nil))
	assert.False(t, IsNil(errors.New("boom")))
	assert.False(t, IsNil(nil))
}
