package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
)

func TestClassifyHTTPError(t *testing.T) {
	t.Parallel()
	cases := []struct {
		status   int
		category ErrorCategory
		kind     Kind
	}{
		{401, Irrecoverable, KindAuth},
		{403, Irrecoverable, KindPermission},
		{429, Irrecoverable, KindRateLimited},
		{408, Recoverable, KindTransient},
		{500, Recoverable, KindTransient},
		{503, Recoverable, KindTransient},
		{400, Irrecoverable, KindUnclassified},
		{404, Irrecoverable, KindUnclassified},
	}
	for _, tc := range cases {
		got := NewHTTPError(tc.status, "", "complete")
		if got.Category != tc.category || got.Kind != tc.kind {
			t.Fatalf("status %d: got %s/%s, want %s/%s", tc.status, got.Category, got.Kind, tc.category, tc.kind)
		}
	}
}

func TestNetworkErrorIsRecoverable(t *testing.T) {
	t.Parallel()
	err := NewNetworkError("complete", context.DeadlineExceeded)
	if IsIrrecoverable(err) || !IsRecoverable(err) {
		t.Fatal("network error should be recoverable")
	}
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Fatal("underlying error lost")
	}
}

func TestKindOfHonoursWrapping(t *testing.T) {
	t.Parallel()
	wrapped := fmt.Errorf("attempt 2: %w", NewHTTPError(429, "slow down", "complete"))
	if got := KindOf(wrapped); got != KindRateLimited {
		t.Fatalf("KindOf = %s", got)
	}
	if !IsIrrecoverable(wrapped) {
		t.Fatal("wrapped 429 should be irrecoverable")
	}
	if KindOf(stderrors.New("plain")) != KindUnclassified {
		t.Fatal("plain error should be unclassified")
	}
	plain := stderrors.New("plain")
	if IsIrrecoverable(plain) || IsRecoverable(plain) {
		t.Fatal("plain error should carry no category")
	}
}

func TestErrorString(t *testing.T) {
	t.Parallel()
	e := NewHTTPError(503, "", "complete")
	if e.Error() != "[Recoverable/transient] HTTP 503: complete failed: HTTP 503" {
		t.Fatalf("unexpected error string: %s", e.Error())
	}
}
