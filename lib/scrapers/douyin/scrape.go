package douyin

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

var tracer = otel.Tracer("scrapers/douyin")

const cookieDomain = ".douyin.com"

type Options struct {
	Cookie string
}

func Collect(ctx context.Context, opts Options) platform.Result {
	ctx, span := tracer.Start(ctx, "Collect")
	defer span.End()

	if opts.Cookie == "" {
		return platform.EmptyResult(platform.Douyin, platform.StatusPendingLogin, "no cookie configured")
	}

	buf := NewBuffer()

	sess, err := browser.NewSession(ctx, browser.Options{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return platform.EmptyResult(platform.Douyin, platform.StatusError, err.Error())
	}
	defer sess.Close()

	sess.Listen(buf.Rules())

	err = sess.SetCookies(cookieDomain, opts.Cookie)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return platform.EmptyResult(platform.Douyin, platform.StatusError, err.Error())
	}

	err = sess.Navigate(browser.Step{
		Url:     "https://creator.douyin.com/creator-micro/home",
		Timeout: time.Second * 30,
		Settle:  time.Second * 2,
	})
	if err != nil {
		slog.WarnContext(ctx, "navigation step failed, continuing",
			"platform", "douyin", "err", err)
	}

	terminalErr := sess.Navigate(browser.Step{
		Url:     "https://creator.douyin.com/creator-micro/content/manage",
		Timeout: time.Second * 30,
		Settle:  time.Second * 3,
	})
	if terminalErr == nil {
		// the work list lazy-loads below the fold
		sess.ScrollBy(500)
		sess.Settle(time.Second * 2)

		if buf.Empty() {
			// older dashboard revision keeps the list under a
			// different route
			terminalErr = sess.Navigate(browser.Step{
				Url:     "https://creator.douyin.com/creator/content/manage",
				Timeout: time.Second * 30,
				Settle:  time.Second * 3,
			})
		}
	}

	if terminalErr != nil {
		span.RecordError(terminalErr)
		span.SetStatus(codes.Error, terminalErr.Error())
	}
	loc, _ := sess.Location()
	return assemble(ctx, buf, terminalErr, loc)
}

// assemble turns the buffer contents into the run's result. A terminal
// navigation failure still carries whatever was normalized before it.
func assemble(ctx context.Context, buf *Buffer, terminalErr error, loc string) platform.Result {
	account, works := Normalize(buf)

	if terminalErr != nil {
		return platform.Result{
			Status:  platform.StatusError,
			Message: terminalErr.Error(),
			Account: account,
			Works:   works,
		}
	}

	if strings.Contains(loc, "login") || !buf.AuthCaptured() {
		slog.InfoContext(ctx, "session not authenticated",
			"platform", "douyin", "url", loc)
		return platform.Result{
			Status:  platform.StatusPendingLogin,
			Message: "stored cookie rejected, login required",
			Account: account,
			Works:   works,
		}
	}

	slog.InfoContext(ctx, "collection complete",
		"platform", "douyin",
		"account", account.AccountName,
		"works", len(works))
	return platform.Result{
		Status:  platform.StatusSuccess,
		Account: account,
		Works:   works,
	}
}
