package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallback_Buckets(t *testing.T) {
	f := NewFallback()
	cases := []struct {
		text   string
		bucket string
	}{
		{"I'm feeling ANXIOUS today", "anxiety"},
		{"Help me with breathing exercises", "breathing"},
		{"I can't sleep well", "sleep"},
		{"so tired lately", "sleep"},
		{"I feel sad and lonely", "sadness"},
		{"sometimes I want to end my life", "crisis"},
		{"anxious and thinking about suicide", "crisis"},
		{"what's the weather", "default"},
		{"", "default"},
	}
	for _, tc := range cases {
		reply, bucket := f.Match(tc.text)
		assert.Equal(t, tc.bucket, bucket, tc.text)
		assert.NotEmpty(t, reply)
	}
	assert.Equal(t, DefaultFallbackReply, f.Reply("hmm"))
	assert.Equal(t, CrisisReply, f.Reply("I might hurt myself"))
}
