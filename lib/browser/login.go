package browser

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type LoginState int

const (
	Authenticated LoginState = iota
	LoginTimedOut
)

type LoginOptions struct {
	// EntryUrl is the dashboard route that redirects to the platform's
	// login page when the session is unauthenticated
	EntryUrl string
	// LoginUrlPattern is the substring identifying a login route in
	// the current URL
	LoginUrlPattern string
	// DomainSuffix scopes which cookies are extracted on success
	DomainSuffix string
	UserAgent    string
	// Attach re-binds the platform's capture rules to the headed
	// context, so the auth payload check below sees its traffic
	Attach func(s *Session)
	// AuthCaptured reports whether an authentication payload has been
	// observed since Attach
	AuthCaptured func() bool

	PollInterval time.Duration // defaults to 1s
	Ceiling      time.Duration // defaults to 2m
}

type LoginOutcome struct {
	State  LoginState
	Cookie string
	// Session is the still-open headed session on Authenticated, nil
	// on timeout. The caller either keeps scraping with it or closes
	// it; ownership transfers either way.
	Session *Session
}

// InteractiveLogin opens a visible browser on the platform's login
// entry point and waits until the operator completes the login (QR
// scan) or the ceiling elapses. See awaitLogin for what counts as
// completed.
func InteractiveLogin(ctx context.Context, opts LoginOptions) (LoginOutcome, error) {
	ctx, span := tracer.Start(ctx, "InteractiveLogin")
	defer span.End()
	span.SetAttributes(attribute.String("entry_url", opts.EntryUrl))

	poll := opts.PollInterval
	if poll <= 0 {
		poll = time.Second
	}
	ceiling := opts.Ceiling
	if ceiling <= 0 {
		ceiling = time.Minute * 2
	}

	sess, err := NewSession(ctx, Options{Headed: true, UserAgent: opts.UserAgent})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return LoginOutcome{State: LoginTimedOut}, err
	}

	if opts.Attach != nil {
		opts.Attach(sess)
	}

	err = sess.Navigate(Step{
		Url:     opts.EntryUrl,
		Ready:   ReadyDOM,
		Timeout: time.Minute * 2,
		Settle:  time.Second * 3,
	})
	if err != nil {
		sess.Close()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return LoginOutcome{State: LoginTimedOut}, err
	}

	slog.InfoContext(ctx, "waiting for interactive login, scan the QR code in the opened window",
		"ceiling", ceiling)

	cookie, state, err := awaitLogin(ctx, sess, opts, poll, ceiling)
	if err != nil {
		sess.Close()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return LoginOutcome{State: LoginTimedOut}, err
	}
	if state != Authenticated {
		sess.Close()
		span.SetStatus(codes.Error, "login timed out")
		return LoginOutcome{State: LoginTimedOut}, nil
	}

	slog.InfoContext(ctx, "interactive login succeeded")
	return LoginOutcome{
		State:   Authenticated,
		Cookie:  cookie,
		Session: sess,
	}, nil
}

// loginSession is the slice of Session the poll loop reads from.
type loginSession interface {
	Location() (string, error)
	Cookies(domainSuffix string) (string, error)
}

// awaitLogin polls the session until the current URL has left the login
// route AND an auth payload was captured, or the ceiling elapses. A URL
// change alone is not enough; platforms briefly redirect off the login
// URL before the session is actually valid.
func awaitLogin(ctx context.Context, sess loginSession, opts LoginOptions, poll, ceiling time.Duration) (string, LoginState, error) {
	deadline := time.Now().Add(ceiling)
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return "", LoginTimedOut, ctx.Err()
		case <-ticker.C:
		}

		loc, err := sess.Location()
		if err != nil {
			// the operator may have closed the window
			slog.WarnContext(ctx, "failed to read login page location", "err", err)
			continue
		}
		if strings.Contains(loc, opts.LoginUrlPattern) {
			continue
		}
		if opts.AuthCaptured != nil && !opts.AuthCaptured() {
			continue
		}

		cookie, err := sess.Cookies(opts.DomainSuffix)
		if err != nil {
			return "", LoginTimedOut, err
		}
		return cookie, Authenticated, nil
	}

	return "", LoginTimedOut, nil
}
