package xiaohongshu

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

var tracer = otel.Tracer("scrapers/xiaohongshu")

const cookieDomain = ".xiaohongshu.com"

type Options struct {
	Cookie string
}

// the dashboard routes that trigger the endpoints the buffer listens
// for; fans-data fires the follower overview, data-analysis fires the
// user info and the note list
func steps() []browser.Step {
	return []browser.Step{
		{
			Url:     "https://creator.xiaohongshu.com/statistics/fans-data",
			Timeout: time.Second * 30,
			Settle:  time.Second * 2,
		},
		{
			Url:     "https://creator.xiaohongshu.com/statistics/data-analysis",
			Timeout: time.Second * 30,
			Settle:  time.Second * 3,
		},
	}
}

// Collect runs one full scrape. It never returns an error: every
// failure mode degrades into a Result status carrying whatever was
// normalized up to that point.
func Collect(ctx context.Context, opts Options) platform.Result {
	ctx, span := tracer.Start(ctx, "Collect")
	defer span.End()

	if opts.Cookie == "" {
		return platform.EmptyResult(platform.Xiaohongshu, platform.StatusPendingLogin, "no cookie configured")
	}

	buf := NewBuffer()

	sess, err := browser.NewSession(ctx, browser.Options{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return platform.EmptyResult(platform.Xiaohongshu, platform.StatusError, err.Error())
	}
	defer sess.Close()

	sess.Listen(buf.Rules())

	err = sess.SetCookies(cookieDomain, opts.Cookie)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return platform.EmptyResult(platform.Xiaohongshu, platform.StatusError, err.Error())
	}

	navSteps := steps()
	var terminalErr error
	for i, step := range navSteps {
		err := sess.Navigate(step)
		if err == nil {
			continue
		}
		// a slow intermediate page is a soft failure, later routes can
		// still fill the buffer
		if i < len(navSteps)-1 {
			slog.WarnContext(ctx, "navigation step failed, continuing",
				"platform", "xiaohongshu", "url", step.Url, "err", err)
			continue
		}
		terminalErr = err
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
			"platform", "xiaohongshu", "url", loc)
		return platform.Result{
			Status:  platform.StatusPendingLogin,
			Message: "stored cookie rejected, login required",
			Account: account,
			Works:   works,
		}
	}

	slog.InfoContext(ctx, "collection complete",
		"platform", "xiaohongshu",
		"account", account.AccountName,
		"works", len(works))
	return platform.Result{
		Status:  platform.StatusSuccess,
		Account: account,
		Works:   works,
	}
}
