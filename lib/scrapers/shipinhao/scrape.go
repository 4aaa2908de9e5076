package shipinhao

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"creatortrack/lib/browser"
	"creatortrack/lib/platform"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/shipinhao")

const (
	cookieDomain = ".weixin.qq.com"
	dashboardUrl = "https://channels.weixin.qq.com/platform/post/list"
)

type Options struct {
	Cookie string
	// AllowInteractiveLogin escalates to a visible QR-scan window when
	// the stored cookie is dead. The orchestrator always permits this
	// for shipinhao since its sessions rarely outlive a day.
	AllowInteractiveLogin bool
	// SaveCookie hands refreshed cookies back to the credential
	// collaborator after an interactive login; may be nil
	SaveCookie func(cookie string)
}

func Collect(ctx context.Context, opts Options) platform.Result {
	ctx, span := tracer.Start(ctx, "Collect")
	defer span.End()

	buf := NewBuffer()

	sess, err := browser.NewSession(ctx, browser.Options{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return platform.EmptyResult(platform.Shipinhao, platform.StatusError, err.Error())
	}
	defer func() {
		if sess != nil {
			sess.Close()
		}
	}()

	sess.Listen(buf.Rules())

	if opts.Cookie != "" {
		err = sess.SetCookies(cookieDomain, opts.Cookie)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return platform.EmptyResult(platform.Shipinhao, platform.StatusError, err.Error())
		}
	}

	// the dashboard loads media forever, DOM readiness is enough
	err = sess.Navigate(browser.Step{
		Url:     dashboardUrl,
		Ready:   browser.ReadyDOM,
		Timeout: time.Second * 60,
		Settle:  time.Second * 3,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return partialResult(buf, err)
	}

	loc, _ := sess.Location()
	needLogin := strings.Contains(loc, "login") ||
		buf.NeedLogin() ||
		!buf.AuthCaptured() ||
		sess.LoginWallVisible(".login-container", ".qrcode-wrap")

	if needLogin {
		if !opts.AllowInteractiveLogin {
			slog.InfoContext(ctx, "stored cookie invalid, interactive login not permitted",
				"platform", "shipinhao")
			return platform.EmptyResult(platform.Shipinhao, platform.StatusPendingLogin, "waiting for login")
		}

		// the headless session is useless now, the headed one replaces it
		sess.Close()
		sess = nil
		buf.Reset()

		outcome, err := browser.InteractiveLogin(ctx, browser.LoginOptions{
			EntryUrl:        dashboardUrl,
			LoginUrlPattern: "login",
			DomainSuffix:    "weixin.qq.com",
			Attach: func(headed *browser.Session) {
				headed.Listen(buf.Rules())
			},
			AuthCaptured: buf.AuthCaptured,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return platform.EmptyResult(platform.Shipinhao, platform.StatusError, err.Error())
		}
		if outcome.State == browser.LoginTimedOut {
			slog.WarnContext(ctx, "interactive login timed out", "platform", "shipinhao")
			return platform.EmptyResult(platform.Shipinhao, platform.StatusPendingLogin, "login timed out")
		}

		sess = outcome.Session
		if opts.SaveCookie != nil && outcome.Cookie != "" {
			opts.SaveCookie(outcome.Cookie)
		}
		// the post list fires after the post-login redirect settles
		sess.Settle(time.Second * 3)
	}

	sess.Settle(time.Second * 5)

	account, works := Normalize(buf)

	slog.InfoContext(ctx, "collection complete",
		"platform", "shipinhao",
		"account", account.AccountName,
		"works", len(works))
	return platform.Result{
		Status:  platform.StatusSuccess,
		Account: account,
		Works:   works,
	}
}

// partialResult reports a failed run without dropping what the buffer
// already captured.
func partialResult(buf *Buffer, err error) platform.Result {
	account, works := Normalize(buf)
	return platform.Result{
		Status:  platform.StatusError,
		Message: err.Error(),
		Account: account,
		Works:   works,
	}
}
