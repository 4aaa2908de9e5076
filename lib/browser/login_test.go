package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeLoginSession replays a fixed sequence of page locations, holding
// the last one once the script runs out.
type fakeLoginSession struct {
	locations []string
	index     int
	cookie    string
}

func (f *fakeLoginSession) Location() (string, error) {
	loc := f.locations[f.index]
	if f.index < len(f.locations)-1 {
		f.index++
	}
	return loc, nil
}

func (f *fakeLoginSession) Cookies(domainSuffix string) (string, error) {
	return f.cookie, nil
}

func TestAwaitLoginTimesOutWithoutAuthPayload(t *testing.T) {
	// the page leaves the login route but the auth payload never shows
	// up; a URL change alone must not count as success
	sess := &fakeLoginSession{
		locations: []string{
			"https://example.com/login",
			"https://example.com/dashboard",
		},
		cookie: "session=abc",
	}
	opts := LoginOptions{
		LoginUrlPattern: "/login",
		AuthCaptured:    func() bool { return false },
	}

	cookie, state, err := awaitLogin(context.Background(), sess, opts,
		time.Millisecond*2, time.Millisecond*40)
	require.NoError(t, err)
	require.Equal(t, LoginTimedOut, state)
	require.Empty(t, cookie)
}

func TestAwaitLoginRequiresLeavingLoginRoute(t *testing.T) {
	sess := &fakeLoginSession{
		locations: []string{"https://example.com/login?step=qr"},
		cookie:    "session=abc",
	}
	opts := LoginOptions{
		LoginUrlPattern: "/login",
		AuthCaptured:    func() bool { return true },
	}

	_, state, err := awaitLogin(context.Background(), sess, opts,
		time.Millisecond*2, time.Millisecond*40)
	require.NoError(t, err)
	require.Equal(t, LoginTimedOut, state)
}

func TestAwaitLoginResolvesWhenBothConditionsHold(t *testing.T) {
	sess := &fakeLoginSession{
		locations: []string{
			"https://example.com/login",
			"https://example.com/dashboard",
		},
		cookie: "session=abc",
	}
	captured := false
	opts := LoginOptions{
		LoginUrlPattern: "/login",
		DomainSuffix:    "example.com",
		AuthCaptured: func() bool {
			// first off-login tick still has no payload
			was := captured
			captured = true
			return was
		},
	}

	cookie, state, err := awaitLogin(context.Background(), sess, opts,
		time.Millisecond*2, time.Second*5)
	require.NoError(t, err)
	require.Equal(t, Authenticated, state)
	require.Equal(t, "session=abc", cookie)
}

func TestAwaitLoginStopsOnContextCancel(t *testing.T) {
	sess := &fakeLoginSession{
		locations: []string{"https://example.com/login"},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, state, err := awaitLogin(ctx, sess, LoginOptions{LoginUrlPattern: "/login"},
		time.Millisecond*2, time.Second*5)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, LoginTimedOut, state)
}
