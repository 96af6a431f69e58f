package gateway

import "fmt"

// NotConfiguredReply is returned when no credential is configured.
const NotConfiguredReply = "AI chat is temporarily unavailable. You can still use mood tracking, exercises, and meditation features!"

// AuthReply is returned when the endpoint rejects the configured credential.
const AuthReply = "AI chat could not authenticate with the assistant service. Please check the API key configuration. You can still use mood tracking, exercises, and meditation features!"

// WaitReply is returned while the rate-limit cooldown is active.
func WaitReply(seconds int) string {
	if seconds < 1 {
		seconds = 1
	}
	unit := "seconds"
	if seconds == 1 {
		unit = "second"
	}
	return fmt.Sprintf("I'm receiving a lot of messages right now. Please wait %d %s before trying again.", seconds, unit)
}
