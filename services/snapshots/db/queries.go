package db

import (
	"context"
)

const upsertDailyAccount = `
INSERT INTO daily_accounts (
    date, platform, account_name, account_id, avatar_url,
    followers, total_views, total_likes, total_comments,
    total_shares, total_collects, total_works, collected_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(date, platform) DO UPDATE SET
    account_name = excluded.account_name,
    account_id = excluded.account_id,
    avatar_url = excluded.avatar_url,
    followers = excluded.followers,
    total_views = excluded.total_views,
    total_likes = excluded.total_likes,
    total_comments = excluded.total_comments,
    total_shares = excluded.total_shares,
    total_collects = excluded.total_collects,
    total_works = excluded.total_works,
    collected_at = excluded.collected_at
`

type UpsertDailyAccountParams struct {
	Date          string
	Platform      string
	AccountName   string
	AccountID     string
	AvatarURL     string
	Followers     int64
	TotalViews    int64
	TotalLikes    int64
	TotalComments int64
	TotalShares   int64
	TotalCollects int64
	TotalWorks    int64
	CollectedAt   int64
}

func (q *Queries) UpsertDailyAccount(ctx context.Context, arg UpsertDailyAccountParams) error {
	_, err := q.db.ExecContext(ctx, upsertDailyAccount,
		arg.Date,
		arg.Platform,
		arg.AccountName,
		arg.AccountID,
		arg.AvatarURL,
		arg.Followers,
		arg.TotalViews,
		arg.TotalLikes,
		arg.TotalComments,
		arg.TotalShares,
		arg.TotalCollects,
		arg.TotalWorks,
		arg.CollectedAt,
	)
	return err
}

const upsertWork = `
INSERT INTO works (
    work_id, platform, title, publish_time, cover_url, url,
    views, likes, comments, shares, collects, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(work_id) DO UPDATE SET
    platform = excluded.platform,
    title = excluded.title,
    publish_time = excluded.publish_time,
    cover_url = excluded.cover_url,
    url = excluded.url,
    views = excluded.views,
    likes = excluded.likes,
    comments = excluded.comments,
    shares = excluded.shares,
    collects = excluded.collects,
    updated_at = excluded.updated_at
`

type UpsertWorkParams struct {
	WorkID      string
	Platform    string
	Title       string
	PublishTime string
	CoverURL    string
	URL         string
	Views       int64
	Likes       int64
	Comments    int64
	Shares      int64
	Collects    int64
	UpdatedAt   int64
}

func (q *Queries) UpsertWork(ctx context.Context, arg UpsertWorkParams) error {
	_, err := q.db.ExecContext(ctx, upsertWork,
		arg.WorkID,
		arg.Platform,
		arg.Title,
		arg.PublishTime,
		arg.CoverURL,
		arg.URL,
		arg.Views,
		arg.Likes,
		arg.Comments,
		arg.Shares,
		arg.Collects,
		arg.UpdatedAt,
	)
	return err
}

const getDailyAccounts = `
SELECT date, platform, account_name, account_id, avatar_url,
    followers, total_views, total_likes, total_comments,
    total_shares, total_collects, total_works, collected_at
FROM daily_accounts
WHERE platform = ?
ORDER BY date ASC
`

func (q *Queries) GetDailyAccounts(ctx context.Context, platform string) ([]DailyAccount, error) {
	rows, err := q.db.QueryContext(ctx, getDailyAccounts, platform)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DailyAccount
	for rows.Next() {
		var i DailyAccount
		if err := rows.Scan(
			&i.Date,
			&i.Platform,
			&i.AccountName,
			&i.AccountID,
			&i.AvatarURL,
			&i.Followers,
			&i.TotalViews,
			&i.TotalLikes,
			&i.TotalComments,
			&i.TotalShares,
			&i.TotalCollects,
			&i.TotalWorks,
			&i.CollectedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getLatestDailyAccount = `
SELECT date, platform, account_name, account_id, avatar_url,
    followers, total_views, total_likes, total_comments,
    total_shares, total_collects, total_works, collected_at
FROM daily_accounts
WHERE platform = ?
ORDER BY date DESC
LIMIT 1
`

func (q *Queries) GetLatestDailyAccount(ctx context.Context, platform string) (DailyAccount, error) {
	row := q.db.QueryRowContext(ctx, getLatestDailyAccount, platform)
	var i DailyAccount
	err := row.Scan(
		&i.Date,
		&i.Platform,
		&i.AccountName,
		&i.AccountID,
		&i.AvatarURL,
		&i.Followers,
		&i.TotalViews,
		&i.TotalLikes,
		&i.TotalComments,
		&i.TotalShares,
		&i.TotalCollects,
		&i.TotalWorks,
		&i.CollectedAt,
	)
	return i, err
}

const getLatestWorks = `
SELECT work_id, platform, title, publish_time, cover_url, url,
    views, likes, comments, shares, collects, updated_at
FROM works
WHERE platform = ?
ORDER BY publish_time DESC, work_id DESC
LIMIT ?
`

type GetLatestWorksParams struct {
	Platform string
	Limit    int64
}

func (q *Queries) GetLatestWorks(ctx context.Context, arg GetLatestWorksParams) ([]Work, error) {
	rows, err := q.db.QueryContext(ctx, getLatestWorks, arg.Platform, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Work
	for rows.Next() {
		var i Work
		if err := rows.Scan(
			&i.WorkID,
			&i.Platform,
			&i.Title,
			&i.PublishTime,
			&i.CoverURL,
			&i.URL,
			&i.Views,
			&i.Likes,
			&i.Comments,
			&i.Shares,
			&i.Collects,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteDailyAccountsBefore = `
DELETE FROM daily_accounts WHERE date < ?
`

func (q *Queries) DeleteDailyAccountsBefore(ctx context.Context, date string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteDailyAccountsBefore, date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
