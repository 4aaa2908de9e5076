package xiaohongshu

import (
	"context"
	"errors"

	"creatortrack/lib/browser"
)

// Login runs a one-off interactive QR login and returns the refreshed
// cookie string. The entry route redirects to the login page while
// unauthenticated and fires the user info endpoint once the session is
// valid.
func Login(ctx context.Context) (string, error) {
	buf := NewBuffer()
	outcome, err := browser.InteractiveLogin(ctx, browser.LoginOptions{
		EntryUrl:        "https://creator.xiaohongshu.com/statistics/data-analysis",
		LoginUrlPattern: "login",
		DomainSuffix:    "xiaohongshu.com",
		Attach: func(s *browser.Session) {
			s.Listen(buf.Rules())
		},
		AuthCaptured: buf.AuthCaptured,
	})
	if err != nil {
		return "", err
	}
	if outcome.State == browser.LoginTimedOut {
		return "", errors.New("login timed out")
	}
	outcome.Session.Close()
	return outcome.Cookie, nil
}
