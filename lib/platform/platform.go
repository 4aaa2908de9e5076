// Package platform defines the unified schema every platform collector
// normalizes into, and the per-run result contract the orchestrator
// consumes.
package platform

type Platform string

const (
	Xiaohongshu Platform = "xiaohongshu"
	Douyin      Platform = "douyin"
	Shipinhao   Platform = "shipinhao"
)

func All() []Platform {
	return []Platform{Xiaohongshu, Douyin, Shipinhao}
}

func Valid(p string) bool {
	switch Platform(p) {
	case Xiaohongshu, Douyin, Shipinhao:
		return true
	}
	return false
}

// Account is one platform's aggregate for a single collection run.
// The Total* fields are always sums over the works observed in the
// same run, never the platform's own rolling totals, which disagree
// with the work list whenever works get deleted or delisted.
type Account struct {
	Platform      Platform `json:"platform"`
	AccountName   string   `json:"account_name"`
	AccountId     string   `json:"account_id"`
	AvatarUrl     string   `json:"avatar_url"`
	Followers     int64    `json:"followers"`
	TotalViews    int64    `json:"total_views"`
	TotalLikes    int64    `json:"total_likes"`
	TotalComments int64    `json:"total_comments"`
	TotalShares   int64    `json:"total_shares"`
	TotalCollects int64    `json:"total_collects"`
	TotalWorks    int64    `json:"total_works"`
}

// Work is the latest-known state of one content item. WorkId is the
// identity key; platform is informational.
type Work struct {
	WorkId      string   `json:"work_id"`
	Platform    Platform `json:"platform"`
	Title       string   `json:"title"`
	PublishTime string   `json:"publish_time"`
	CoverUrl    string   `json:"cover_url"`
	Url         string   `json:"url"`
	Views       int64    `json:"views"`
	Likes       int64    `json:"likes"`
	Comments    int64    `json:"comments"`
	Shares      int64    `json:"shares"`
	Collects    int64    `json:"collects"`
}

// ApplyTotals recomputes the account aggregates from the work list.
// Every normalizer calls this last so the sum invariant holds no
// matter what the platform reported.
func (a *Account) ApplyTotals(works []Work) {
	a.TotalViews = 0
	a.TotalLikes = 0
	a.TotalComments = 0
	a.TotalShares = 0
	a.TotalCollects = 0
	for _, w := range works {
		a.TotalViews += w.Views
		a.TotalLikes += w.Likes
		a.TotalComments += w.Comments
		a.TotalShares += w.Shares
		a.TotalCollects += w.Collects
	}
	a.TotalWorks = int64(len(works))
}

type Status string

const (
	StatusSuccess      Status = "success"
	StatusPendingLogin Status = "pending_login"
	StatusError        Status = "error"
)

// Result is what every platform run yields, regardless of outcome.
// Account and Works always carry whatever partial data was normalized
// before the run ended, so callers can persist partial progress.
type Result struct {
	Status  Status  `json:"status"`
	Message string  `json:"message"`
	Account Account `json:"account"`
	Works   []Work  `json:"works"`
}

// EmptyResult returns an error/pending skeleton with a default account
// for the platform, never nil slices.
func EmptyResult(p Platform, status Status, message string) Result {
	return Result{
		Status:  status,
		Message: message,
		Account: Account{Platform: p},
		Works:   []Work{},
	}
}
