package writequeue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, 4, cfg.Shards)
	assert.Equal(t, 256, cfg.QueueSize)
	assert.Equal(t, 100*time.Millisecond, cfg.EnqueueTimeout)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.BaseBackoff)
	assert.Equal(t, 5*time.Second, cfg.MaxInterval)
}

func TestConfig_WithDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{Shards: 8, MaxAttempts: 3, QueueSize: 16}.withDefaults()
	assert.Equal(t, 8, cfg.Shards)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 16, cfg.QueueSize)
}
