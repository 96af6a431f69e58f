package identity

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
)

func TestHub_NotifiesInSubscriptionOrder(t *testing.T) {
	h := NewHub(nil)
	var calls []string
	h.OnChange(func(u *model.User) { calls = append(calls, "a:"+u.ID) })
	h.OnChange(func(u *model.User) { calls = append(calls, "b:"+u.ID) })

	h.Publish(&model.User{ID: "u1"})
	assert.Equal(t, []string{"a:u1", "b:u1"}, calls)
	assert.Equal(t, "u1", h.Current().ID)
}

func TestHub_LateSubscriberGetsCurrent(t *testing.T) {
	h := NewHub(nil)
	var got []*model.User
	h.OnChange(func(u *model.User) { got = append(got, u) })
	assert.Empty(t, got, "no replay before the first publish")

	h.Publish(&model.User{ID: "u1"})
	var late *model.User
	h.OnChange(func(u *model.User) { late = u })
	require.NotNil(t, late)
	assert.Equal(t, "u1", late.ID)
}

func TestHub_UnsubscribeIsIdempotentAndSafeDuringNotify(t *testing.T) {
	h := NewHub(nil)
	var second int
	var unsubSecond func()
	h.OnChange(func(*model.User) { unsubSecond() })
	unsubSecond = h.OnChange(func(*model.User) { second++ })

	h.Publish(&model.User{ID: "u1"})
	assert.Equal(t, 0, second, "listener removed earlier in the same publish must not run")

	unsubSecond()
	h.Publish(nil)
	assert.Equal(t, 0, second)
}

func TestHub_SignOutPublishesNil(t *testing.T) {
	h := NewHub(nil)
	last := &model.User{}
	h.OnChange(func(u *model.User) { last = u })
	h.Publish(&model.User{ID: "u1"})
	h.SignOut()
	assert.Nil(t, last)
	assert.Nil(t, h.Current())
}

func TestHub_CurrentIsACopy(t *testing.T) {
	h := NewHub(nil)
	h.Publish(&model.User{ID: "u1", DisplayName: "Asha"})
	h.Current().DisplayName = "changed"
	assert.Equal(t, "Asha", h.Current().DisplayName)
}

func TestHub_SignIn(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	v := NewTokenVerifier("0123456789abcdef0123456789abcdef", "neeva", clock)
	token, err := v.Issue(model.User{ID: "u1", Email: "asha@example.com", DisplayName: "Asha"}, time.Hour)
	require.NoError(t, err)

	h := NewHub(v)
	var seen *model.User
	h.OnChange(func(u *model.User) { seen = u })

	u, err := h.SignIn(token)
	require.NoError(t, err)
	assert.Equal(t, "Asha", u.Name())
	require.NotNil(t, seen)
	assert.Equal(t, "asha@example.com", seen.Email)

	_, err = h.SignIn("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, "u1", h.Current().ID, "failed sign-in keeps the current user")

	_, err = NewHub(nil).SignIn(token)
	assert.ErrorIs(t, err, ErrNoVerifier)
}
