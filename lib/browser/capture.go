package browser

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// CaptureRule routes response bodies whose URL contains Substr to
// Handle. Handle runs on a listener goroutine and may be called while
// navigation is in progress, so implementations guard their buffer
// with a mutex; malformed bodies are the handler's problem to swallow.
type CaptureRule struct {
	Substr string
	Handle func(body []byte)
}

// Listen attaches capture rules to a browser context. Bodies are only
// retrievable once Chrome reports the response fully loaded, so
// matches are remembered at response time and resolved at
// loading-finished time.
func Listen(ctx context.Context, rules []CaptureRule) {
	var mu sync.Mutex
	pending := map[network.RequestID][]CaptureRule{}

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *network.EventResponseReceived:
			var matched []CaptureRule
			for _, r := range rules {
				if strings.Contains(ev.Response.URL, r.Substr) {
					matched = append(matched, r)
				}
			}
			if len(matched) == 0 {
				return
			}
			mu.Lock()
			pending[ev.RequestID] = matched
			mu.Unlock()

		case *network.EventLoadingFinished:
			mu.Lock()
			matched, ok := pending[ev.RequestID]
			delete(pending, ev.RequestID)
			mu.Unlock()
			if !ok {
				return
			}

			requestID := ev.RequestID
			go func() {
				c := chromedp.FromContext(ctx)
				body, err := network.GetResponseBody(requestID).
					Do(cdp.WithExecutor(ctx, c.Target))
				if err != nil {
					// body already evicted or navigation tore the
					// target down; a missed response is not an error,
					// the slot just stays unset
					slog.DebugContext(ctx, "response body unavailable",
						"request_id", requestID, "err", err)
					return
				}
				for _, r := range matched {
					r.Handle(body)
				}
			}()

		case *network.EventLoadingFailed:
			mu.Lock()
			delete(pending, ev.RequestID)
			mu.Unlock()
		}
	})
}

// Listen attaches the rules to this session's context.
func (s *Session) Listen(rules []CaptureRule) {
	Listen(s.ctx, rules)
}
