package douyin

import (
	"context"
	"errors"

	"creatortrack/lib/browser"
)

// Login runs a one-off interactive QR login and returns the refreshed
// cookie string.
func Login(ctx context.Context) (string, error) {
	buf := NewBuffer()
	outcome, err := browser.InteractiveLogin(ctx, browser.LoginOptions{
		EntryUrl:        "https://creator.douyin.com/creator-micro/content/manage",
		LoginUrlPattern: "login",
		DomainSuffix:    "douyin.com",
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
