package db

type DailyAccount struct {
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

type Work struct {
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
