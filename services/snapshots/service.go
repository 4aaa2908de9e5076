// Package snapshots persists daily account rows and latest-state work
// rows, and derives the day-over-day read model the exporter publishes.
package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"strings"
	"time"

	"creatortrack/lib/platform"
	"creatortrack/lib/timezone"
	"creatortrack/services/snapshots/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/snapshots")

const (
	// retentionDays bounds daily_accounts; works keep latest state only
	// and are never expired.
	retentionDays = 90
	// ExportWorkLimit caps the per-platform work list in the export
	// read model.
	ExportWorkLimit = 50
)

type Service struct {
	db  *sql.DB
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{
		db:  database,
		qry: db.New(database),
	}
}

// Record upserts one run's account and works under the given date.
// Re-running the same day replaces the account row wholesale; works
// are last-write-wins by work_id.
func (s Service) Record(ctx context.Context, date string, res platform.Result) error {
	ctx, span := tracer.Start(ctx, "Record")
	defer span.End()

	span.SetAttributes(
		attribute.String("date", date),
		attribute.String("platform", string(res.Account.Platform)),
		attribute.Int("works", len(res.Works)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	now := timezone.Now().Unix()
	acct := res.Account
	err = txqry.UpsertDailyAccount(ctx, db.UpsertDailyAccountParams{
		Date:          date,
		Platform:      string(acct.Platform),
		AccountName:   acct.AccountName,
		AccountID:     acct.AccountId,
		AvatarURL:     acct.AvatarUrl,
		Followers:     acct.Followers,
		TotalViews:    acct.TotalViews,
		TotalLikes:    acct.TotalLikes,
		TotalComments: acct.TotalComments,
		TotalShares:   acct.TotalShares,
		TotalCollects: acct.TotalCollects,
		TotalWorks:    acct.TotalWorks,
		CollectedAt:   now,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	for _, w := range res.Works {
		if w.WorkId == "" {
			continue
		}
		err = txqry.UpsertWork(ctx, db.UpsertWorkParams{
			WorkID:      w.WorkId,
			Platform:    string(w.Platform),
			Title:       w.Title,
			PublishTime: w.PublishTime,
			CoverURL:    w.CoverUrl,
			URL:         w.Url,
			Views:       w.Views,
			Likes:       w.Likes,
			Comments:    w.Comments,
			Shares:      w.Shares,
			Collects:    w.Collects,
			UpdatedAt:   now,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// AccountDiff is one platform's account row for a date plus deltas
// against the nearest earlier row for the same platform. Gaps between
// dates are expected; the baseline is whatever came before, not a
// fixed one-day offset.
//
// CommentsChange and SharesChange are nil when the baseline is
// unknown: those two counters read as zero whenever the platform has
// no history, so previous=0 with current>0 cannot be told apart from
// a genuine jump and is reported as unknown instead.
type AccountDiff struct {
	Account db.DailyAccount

	FollowersChange int64
	ViewsChange     int64
	LikesChange     int64
	CollectsChange  int64
	WorksChange     int64
	CommentsChange  *int64
	SharesChange    *int64
}

func maskedDelta(previous, current int64) *int64 {
	if previous == 0 && current > 0 {
		return nil
	}
	d := current - previous
	return &d
}

// Diffs returns every stored row for the platform in ascending date
// order with deltas filled in. The scan carries a previous-row pointer
// forward once.
func (s Service) Diffs(ctx context.Context, p platform.Platform) ([]AccountDiff, error) {
	ctx, span := tracer.Start(ctx, "Diffs")
	defer span.End()

	span.SetAttributes(attribute.String("platform", string(p)))

	rows, err := s.qry.GetDailyAccounts(ctx, string(p))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	diffs := make([]AccountDiff, 0, len(rows))
	var prev db.DailyAccount
	hasPrev := false
	for _, row := range rows {
		d := AccountDiff{
			Account: row,
			// the first observed date has nothing to diff against;
			// plain deltas stay zero, the masked ones still apply
			// their zero-baseline rule
			CommentsChange: maskedDelta(prev.TotalComments, row.TotalComments),
			SharesChange:   maskedDelta(prev.TotalShares, row.TotalShares),
		}
		if hasPrev {
			d.FollowersChange = row.Followers - prev.Followers
			d.ViewsChange = row.TotalViews - prev.TotalViews
			d.LikesChange = row.TotalLikes - prev.TotalLikes
			d.CollectsChange = row.TotalCollects - prev.TotalCollects
			d.WorksChange = row.TotalWorks - prev.TotalWorks
		}
		diffs = append(diffs, d)
		prev = row
		hasPrev = true
	}
	return diffs, nil
}

// DailySnapshot is one platform's row and deltas for one date.
// CommentsChange/SharesChange are nil when the delta's baseline is
// unknown (see AccountDiff).
type DailySnapshot struct {
	Date          string            `json:"date"`
	Platform      platform.Platform `json:"platform"`
	Followers     int64             `json:"followers"`
	TotalViews    int64             `json:"total_views"`
	TotalLikes    int64             `json:"total_likes"`
	TotalComments int64             `json:"total_comments"`
	TotalShares   int64             `json:"total_shares"`
	TotalCollects int64             `json:"total_collects"`
	TotalWorks    int64             `json:"total_works"`

	FollowersChange int64  `json:"followers_change"`
	ViewsChange     int64  `json:"views_change"`
	LikesChange     int64  `json:"likes_change"`
	CollectsChange  int64  `json:"collects_change"`
	WorksChange     int64  `json:"works_change"`
	CommentsChange  *int64 `json:"comments_change"`
	SharesChange    *int64 `json:"shares_change"`
}

// DailyTotal sums every platform's row and deltas for one date.
// CommentsChange/SharesChange are nil when any contributing platform's
// delta is unknown; an aggregate over an unknown component is unknown,
// not zero-filled.
type DailyTotal struct {
	Date          string `json:"date"`
	Followers     int64  `json:"followers"`
	TotalViews    int64  `json:"total_views"`
	TotalLikes    int64  `json:"total_likes"`
	TotalComments int64  `json:"total_comments"`
	TotalShares   int64  `json:"total_shares"`
	TotalCollects int64  `json:"total_collects"`
	TotalWorks    int64  `json:"total_works"`

	FollowersChange int64  `json:"followers_change"`
	ViewsChange     int64  `json:"views_change"`
	LikesChange     int64  `json:"likes_change"`
	CollectsChange  int64  `json:"collects_change"`
	WorksChange     int64  `json:"works_change"`
	CommentsChange  *int64 `json:"comments_change"`
	SharesChange    *int64 `json:"shares_change"`
}

type PlatformExport struct {
	Account platform.Account `json:"account"`
	Works   []platform.Work  `json:"works"`
}

// Export is the read model handed to downstream publishing. The core
// produces it; file and transport formatting live elsewhere.
type Export struct {
	UpdatedAt      string                               `json:"updated_at"`
	DailySnapshots []DailySnapshot                      `json:"daily_snapshots"`
	DailyTotals    []DailyTotal                         `json:"daily_totals"`
	Platforms      map[platform.Platform]PlatformExport `json:"platforms"`
}

func addMasked(agg, part *int64) *int64 {
	if agg == nil || part == nil {
		return nil
	}
	sum := *agg + *part
	return &sum
}

// Export builds the read model: the last retentionDays of per-platform
// daily snapshots and cross-platform totals newest-first, plus each
// platform's latest account and up to ExportWorkLimit works.
func (s Service) Export(ctx context.Context) (Export, error) {
	ctx, span := tracer.Start(ctx, "Export")
	defer span.End()

	out := Export{
		UpdatedAt:      timezone.Now().Format(time.DateTime),
		DailySnapshots: []DailySnapshot{},
		DailyTotals:    []DailyTotal{},
		Platforms:      map[platform.Platform]PlatformExport{},
	}

	cutoff := timezone.Now().AddDate(0, 0, -retentionDays).Format(time.DateOnly)
	byDate := map[string]*DailyTotal{}

	for _, p := range platform.All() {
		diffs, err := s.Diffs(ctx, p)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return Export{}, err
		}
		for _, d := range diffs {
			if d.Account.Date < cutoff {
				continue
			}
			out.DailySnapshots = append(out.DailySnapshots, DailySnapshot{
				Date:            d.Account.Date,
				Platform:        p,
				Followers:       d.Account.Followers,
				TotalViews:      d.Account.TotalViews,
				TotalLikes:      d.Account.TotalLikes,
				TotalComments:   d.Account.TotalComments,
				TotalShares:     d.Account.TotalShares,
				TotalCollects:   d.Account.TotalCollects,
				TotalWorks:      d.Account.TotalWorks,
				FollowersChange: d.FollowersChange,
				ViewsChange:     d.ViewsChange,
				LikesChange:     d.LikesChange,
				CollectsChange:  d.CollectsChange,
				WorksChange:     d.WorksChange,
				CommentsChange:  d.CommentsChange,
				SharesChange:    d.SharesChange,
			})

			total, ok := byDate[d.Account.Date]
			if !ok {
				zero := int64(0)
				total = &DailyTotal{
					Date:           d.Account.Date,
					CommentsChange: &zero,
					SharesChange:   &zero,
				}
				byDate[d.Account.Date] = total
			}
			total.Followers += d.Account.Followers
			total.TotalViews += d.Account.TotalViews
			total.TotalLikes += d.Account.TotalLikes
			total.TotalComments += d.Account.TotalComments
			total.TotalShares += d.Account.TotalShares
			total.TotalCollects += d.Account.TotalCollects
			total.TotalWorks += d.Account.TotalWorks
			total.FollowersChange += d.FollowersChange
			total.ViewsChange += d.ViewsChange
			total.LikesChange += d.LikesChange
			total.CollectsChange += d.CollectsChange
			total.WorksChange += d.WorksChange
			total.CommentsChange = addMasked(total.CommentsChange, d.CommentsChange)
			total.SharesChange = addMasked(total.SharesChange, d.SharesChange)
		}

		acct, ok, err := s.LatestAccount(ctx, p)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return Export{}, err
		}
		if !ok {
			continue
		}
		works, err := s.LatestWorks(ctx, p, ExportWorkLimit)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return Export{}, err
		}
		out.Platforms[p] = PlatformExport{Account: acct, Works: works}
	}

	// newest first; dates are zero-padded ISO strings so string order
	// is chronological order
	slices.SortFunc(out.DailySnapshots, func(a, b DailySnapshot) int {
		if a.Date != b.Date {
			return strings.Compare(b.Date, a.Date)
		}
		return strings.Compare(string(b.Platform), string(a.Platform))
	})
	for _, total := range byDate {
		out.DailyTotals = append(out.DailyTotals, *total)
	}
	slices.SortFunc(out.DailyTotals, func(a, b DailyTotal) int {
		return strings.Compare(b.Date, a.Date)
	})

	span.SetAttributes(attribute.Int("snapshot_rows", len(out.DailySnapshots)))
	return out, nil
}

// LatestAccount returns the most recent stored account row for the
// platform; ok is false when nothing has been collected yet.
func (s Service) LatestAccount(ctx context.Context, p platform.Platform) (platform.Account, bool, error) {
	ctx, span := tracer.Start(ctx, "LatestAccount")
	defer span.End()

	row, err := s.qry.GetLatestDailyAccount(ctx, string(p))
	if errors.Is(err, sql.ErrNoRows) {
		return platform.Account{}, false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return platform.Account{}, false, err
	}
	return platform.Account{
		Platform:      platform.Platform(row.Platform),
		AccountName:   row.AccountName,
		AccountId:     row.AccountID,
		AvatarUrl:     row.AvatarURL,
		Followers:     row.Followers,
		TotalViews:    row.TotalViews,
		TotalLikes:    row.TotalLikes,
		TotalComments: row.TotalComments,
		TotalShares:   row.TotalShares,
		TotalCollects: row.TotalCollects,
		TotalWorks:    row.TotalWorks,
	}, true, nil
}

func (s Service) LatestWorks(ctx context.Context, p platform.Platform, limit int64) ([]platform.Work, error) {
	ctx, span := tracer.Start(ctx, "LatestWorks")
	defer span.End()

	rows, err := s.qry.GetLatestWorks(ctx, db.GetLatestWorksParams{
		Platform: string(p),
		Limit:    limit,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	works := make([]platform.Work, 0, len(rows))
	for _, row := range rows {
		works = append(works, platform.Work{
			WorkId:      row.WorkID,
			Platform:    platform.Platform(row.Platform),
			Title:       row.Title,
			PublishTime: row.PublishTime,
			CoverUrl:    row.CoverURL,
			Url:         row.URL,
			Views:       row.Views,
			Likes:       row.Likes,
			Comments:    row.Comments,
			Shares:      row.Shares,
			Collects:    row.Collects,
		})
	}
	return works, nil
}

// Cleanup expires daily account rows older than the retention window
// and reports how many were removed.
func (s Service) Cleanup(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "Cleanup")
	defer span.End()

	cutoff := timezone.Now().AddDate(0, 0, -retentionDays).Format(time.DateOnly)
	removed, err := s.qry.DeleteDailyAccountsBefore(ctx, cutoff)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	span.SetAttributes(attribute.Int64("removed", removed))
	return removed, nil
}
