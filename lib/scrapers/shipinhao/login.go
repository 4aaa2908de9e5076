package shipinhao

import (
	"context"
	"errors"

	"creatortrack/lib/browser"
)

// Login runs a one-off interactive QR login and returns the refreshed
// cookie string. Collect escalates to the same flow on its own; this
// exists for refreshing the cookie without a full collection run.
func Login(ctx context.Context) (string, error) {
	buf := NewBuffer()
	outcome, err := browser.InteractiveLogin(ctx, browser.LoginOptions{
		EntryUrl:        dashboardUrl,
		LoginUrlPattern: "login",
		DomainSuffix:    "weixin.qq.com",
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
