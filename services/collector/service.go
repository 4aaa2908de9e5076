// Package collector orchestrates one collection run across every
// enabled platform: credential lookup, scrape, persistence. Platform
// failures never cross platform boundaries.
package collector

import (
	"context"
	"fmt"
	"log/slog"

	"creatortrack/lib/platform"
	"creatortrack/lib/scrapers/douyin"
	"creatortrack/lib/scrapers/shipinhao"
	"creatortrack/lib/scrapers/xiaohongshu"
	"creatortrack/lib/timezone"
	"creatortrack/services/credentials"
	"creatortrack/services/snapshots"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/collector")

type Options struct {
	Cookie                string
	AllowInteractiveLogin bool
	// SaveCookie receives refreshed cookies when a scraper performs an
	// inline interactive login
	SaveCookie func(cookie string)
}

type CollectFunc func(ctx context.Context, opts Options) platform.Result

// DefaultCollectors wires the real scrapers. Shipinhao is the only one
// that escalates to interactive login inline; its sessions are too
// short-lived for a stored cookie to ever stay valid.
func DefaultCollectors() map[platform.Platform]CollectFunc {
	return map[platform.Platform]CollectFunc{
		platform.Xiaohongshu: func(ctx context.Context, opts Options) platform.Result {
			return xiaohongshu.Collect(ctx, xiaohongshu.Options{Cookie: opts.Cookie})
		},
		platform.Douyin: func(ctx context.Context, opts Options) platform.Result {
			return douyin.Collect(ctx, douyin.Options{Cookie: opts.Cookie})
		},
		platform.Shipinhao: func(ctx context.Context, opts Options) platform.Result {
			return shipinhao.Collect(ctx, shipinhao.Options{
				Cookie:                opts.Cookie,
				AllowInteractiveLogin: opts.AllowInteractiveLogin,
				SaveCookie:            opts.SaveCookie,
			})
		},
	}
}

type Service struct {
	credentials credentials.Service
	snapshots   snapshots.Service
	collectors  map[platform.Platform]CollectFunc
}

func NewService(
	creds credentials.Service,
	snaps snapshots.Service,
	collectors map[platform.Platform]CollectFunc,
) Service {
	return Service{
		credentials: creds,
		snapshots:   snaps,
		collectors:  collectors,
	}
}

type RunOptions struct {
	// Platforms restricts the run; empty means every registered
	// platform
	Platforms []platform.Platform
	// AllowInteractiveLogin permits scrapers to escalate to a headed
	// QR-scan window on dead cookies; scheduled runs leave this off
	AllowInteractiveLogin bool
}

// collect runs one platform behind a recover barrier. A panicking
// scraper yields an error result instead of taking down the sibling
// runs.
func (s Service) collect(ctx context.Context, p platform.Platform, opts Options) (res platform.Result) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("platform run panicked: %v", r)
			slog.ErrorContext(ctx, "platform run panicked", "platform", p, "panic", r)
			res = platform.EmptyResult(p, platform.StatusError, err.Error())
		}
	}()
	fn, ok := s.collectors[p]
	if !ok {
		return platform.EmptyResult(p, platform.StatusError, "no collector registered")
	}
	return fn(ctx, opts)
}

// Run executes one collection pass. Each platform runs sequentially
// against its own browser context; successful results are persisted
// under today's date, everything else is only reported. The returned
// slice always has one result per attempted platform.
func (s Service) Run(ctx context.Context, opts RunOptions) ([]platform.Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	targets := opts.Platforms
	if len(targets) == 0 {
		targets = platform.All()
	}
	span.SetAttributes(attribute.Int("platforms", len(targets)))

	today := timezone.Today()
	var results []platform.Result

	for _, p := range targets {
		entry, err := s.credentials.Get(ctx, p)
		if err != nil {
			// a broken credential store for one platform must not stop
			// the remaining platforms from running
			span.RecordError(err)
			slog.ErrorContext(ctx, "failed to read credentials",
				"platform", p, "err", err)
			results = append(results, platform.EmptyResult(
				p, platform.StatusError, fmt.Sprintf("read credentials: %v", err)))
			continue
		}
		if !entry.Enabled {
			slog.InfoContext(ctx, "platform disabled, skipping", "platform", p)
			continue
		}
		if entry.Cookie == "" && !opts.AllowInteractiveLogin {
			// no point launching a browser that can only hit a login wall
			slog.WarnContext(ctx, "no cookie configured", "platform", p)
			results = append(results, platform.EmptyResult(
				p, platform.StatusPendingLogin, "no cookie configured"))
			continue
		}

		slog.InfoContext(ctx, "collecting", "platform", p)
		res := s.collect(ctx, p, Options{
			Cookie:                entry.Cookie,
			AllowInteractiveLogin: opts.AllowInteractiveLogin,
			SaveCookie: func(cookie string) {
				err := s.credentials.SetCookie(ctx, p, cookie, "interactive_login")
				if err != nil {
					slog.ErrorContext(ctx, "failed to persist refreshed cookie",
						"platform", p, "err", err)
				}
			},
		})

		switch res.Status {
		case platform.StatusSuccess:
			err := s.snapshots.Record(ctx, today, res)
			if err != nil {
				// the scraped data is still reported; only its status
				// flips so the caller knows nothing was stored
				span.RecordError(err)
				slog.ErrorContext(ctx, "failed to persist snapshot",
					"platform", p, "err", err)
				res.Status = platform.StatusError
				res.Message = fmt.Sprintf("persist snapshot: %v", err)
				break
			}
			slog.InfoContext(ctx, "collection persisted",
				"platform", p,
				"works", len(res.Works),
				"followers", res.Account.Followers)
		case platform.StatusPendingLogin:
			slog.WarnContext(ctx, "platform needs login", "platform", p, "message", res.Message)
		case platform.StatusError:
			slog.ErrorContext(ctx, "platform run failed", "platform", p, "message", res.Message)
		}
		results = append(results, res)
	}

	return results, nil
}
