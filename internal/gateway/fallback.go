package gateway

import "strings"

// CrisisReply is returned whenever the message mentions self-harm.
const CrisisReply = "I'm really concerned about you. Please reach out to a crisis hotline or trusted person right now. You're not alone in this 💙"

// DefaultFallbackReply answers anything no bucket matched.
const DefaultFallbackReply = "I'm here to support you on your mental health journey. What's on your mind today?"

type bucket struct {
	name     string
	keywords []string
	reply    string
}

// Fallback is the local rule-based responder used when the remote service is
// unavailable. Buckets are checked in order; the first match wins.
type Fallback struct {
	buckets []bucket
}

// NewFallback returns the responder with the built-in buckets.
func NewFallback() *Fallback {
	return &Fallback{buckets: []bucket{
		{
			name:     "crisis",
			keywords: []string{"suicide", "suicidal", "kill myself", "self-harm", "self harm", "hurt myself", "end my life"},
			reply:    CrisisReply,
		},
		{
			name:     "anxiety",
			keywords: []string{"anxious", "anxiety", "panic", "worried"},
			reply:    "I understand you're feeling anxious. Let's try a simple breathing exercise together. Take a deep breath in for 4 counts, hold for 7, and exhale for 8.",
		},
		{
			name:     "breathing",
			keywords: []string{"breath"},
			reply:    "Great choice! Breathing exercises are excellent for managing stress. Let's start with the 4-7-8 technique.",
		},
		{
			name:     "sleep",
			keywords: []string{"sleep", "tired", "insomnia"},
			reply:    "Sleep troubles can really affect our wellbeing. Try creating a bedtime routine and avoiding screens before bed.",
		},
		{
			name:     "sadness",
			keywords: []string{"sad", "down", "lonely", "depressed", "cry"},
			reply:    "I'm sorry you're feeling this way. Your feelings are valid, and it's okay to not be okay. Would you like to talk about what's weighing on you, or try a short grounding exercise?",
		},
	}}
}

// Reply returns the canned reply for text. It never returns an empty string.
func (f *Fallback) Reply(text string) string {
	reply, _ := f.Match(text)
	return reply
}

// Match returns the reply and the name of the bucket that produced it, or
// "default" when nothing matched.
func (f *Fallback) Match(text string) (reply, bucketName string) {
	lower := strings.ToLower(text)
	for _, b := range f.buckets {
		for _, kw := range b.keywords {
			if strings.Contains(lower, kw) {
				return b.reply, b.name
			}
		}
	}
	return DefaultFallbackReply, "default"
}
