// Package browser drives one Chrome session per platform run: cookie
// injection, scripted navigation through the platform's dashboard
// routes, response interception, and the interactive login flow.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"creatortrack/lib/cookieutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/browser")

const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

type Options struct {
	// Headed opens a visible window, used only for interactive login
	Headed    bool
	UserAgent string
}

// Session owns one isolated browser context. Not safe for concurrent
// use; each platform run gets its own.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

func NewSession(parent context.Context, opts Options) (*Session, error) {
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.UserAgent(ua),
		chromedp.Flag("headless", !opts.Headed),
	)
	if opts.Headed {
		allocOpts = append(allocOpts, chromedp.Flag("window-size", "1280,800"))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// spawns the browser and turns on response events for the
	// capture listener
	err := chromedp.Run(ctx, network.Enable())
	if err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &Session{
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
	}, nil
}

func (s *Session) Context() context.Context {
	return s.ctx
}

func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}

// SetCookies injects a stored cookie string scoped to a single domain
// (".douyin.com" style, so every platform subdomain sees them).
func (s *Session) SetCookies(domain, cookieStr string) error {
	cookies := cookieutil.Parse(cookieStr)
	if len(cookies) == 0 {
		return fmt.Errorf("cookie string for %q contained no cookies", domain)
	}

	actions := make([]chromedp.Action, 0, len(cookies))
	for _, c := range cookies {
		actions = append(actions, network.SetCookie(c.Name, c.Value).
			WithDomain(domain).
			WithPath("/"))
	}
	return chromedp.Run(s.ctx, actions...)
}

type Readiness int

const (
	// ReadyLoad waits for the full load event
	ReadyLoad Readiness = iota
	// ReadyDOM only waits for the document to parse, for pages whose
	// subresources load forever
	ReadyDOM
)

// Step is one scripted navigation. Settle is the fixed delay after
// readiness during which the capture listener drains late responses;
// the buffer must only be read after the final step's settle.
type Step struct {
	Url     string
	Ready   Readiness
	Timeout time.Duration
	Settle  time.Duration
}

func (s *Session) Navigate(step Step) error {
	ctx, span := tracer.Start(s.ctx, "Navigate")
	defer span.End()
	span.SetAttributes(attribute.String("url", step.Url))

	timeout := step.Timeout
	if timeout <= 0 {
		timeout = time.Second * 30
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var actions []chromedp.Action
	switch step.Ready {
	case ReadyDOM:
		actions = append(actions,
			chromedp.ActionFunc(func(ctx context.Context) error {
				_, _, _, err := page.Navigate(step.Url).Do(ctx)
				return err
			}),
			chromedp.WaitReady("body", chromedp.ByQuery),
		)
	default:
		actions = append(actions, chromedp.Navigate(step.Url))
	}
	if step.Settle > 0 {
		actions = append(actions, chromedp.Sleep(step.Settle))
	}

	err := chromedp.Run(ctx, actions...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("navigate %s: %w", step.Url, err)
	}
	return nil
}

// Settle waits in-page, letting the capture listener drain whatever is
// still in flight.
func (s *Session) Settle(d time.Duration) error {
	return chromedp.Run(s.ctx, chromedp.Sleep(d))
}

// ScrollBy nudges the page; some platforms only fire their list
// endpoints once the viewport moves.
func (s *Session) ScrollBy(pixels int) error {
	return chromedp.Run(s.ctx, chromedp.Evaluate(
		fmt.Sprintf("window.scrollTo(0, %d)", pixels), nil,
	))
}

func (s *Session) Location() (string, error) {
	var loc string
	err := chromedp.Run(s.ctx, chromedp.Location(&loc))
	return loc, err
}

// Document snapshots the rendered DOM for goquery inspection.
func (s *Session) Document() (*goquery.Document, error) {
	var html string
	err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html))
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// LoginWallVisible reports whether the rendered page shows any of the
// given login-wall selectors (QR containers and the like). A DOM
// snapshot failure counts as "not visible" since the URL and captured
// auth status checks still apply.
func (s *Session) LoginWallVisible(selectors ...string) bool {
	doc, err := s.Document()
	if err != nil {
		return false
	}
	for _, sel := range selectors {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}
	return false
}

// Cookies serializes every cookie whose domain ends with the given
// suffix into the stored cookie-string form.
func (s *Session) Cookies(domainSuffix string) (string, error) {
	var out string
	err := chromedp.Run(s.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		var kept []cookieutil.Cookie
		for _, c := range cookies {
			if strings.HasSuffix(c.Domain, domainSuffix) {
				kept = append(kept, cookieutil.Cookie{Name: c.Name, Value: c.Value})
			}
		}
		out = cookieutil.Serialize(kept)
		return nil
	}))
	return out, err
}
