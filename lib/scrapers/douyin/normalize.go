package douyin

import (
	"fmt"

	"creatortrack/lib/normalize"
	"creatortrack/lib/platform"
)

const titleMaxLen = 80

func Normalize(b *Buffer) (platform.Account, []platform.Work) {
	items := b.snapshot()

	account := platform.Account{Platform: platform.Douyin}
	works := make([]platform.Work, 0, len(items))

	for _, item := range items {
		// account identity comes from the first item carrying an author
		if account.AccountName == "" && item.Author != nil {
			a := item.Author
			account.AccountName = a.Nickname
			account.AccountId = normalize.FirstNonEmpty(stringify(a.Uid), a.UniqueId)
			account.Followers = firstPositive(
				normalize.Int(a.FollowerCount),
				normalize.Int(a.MplatformFollowersCount),
			)
			account.AvatarUrl = normalize.FirstNonEmpty(
				a.AvatarThumb.first(),
				a.AvatarMedium.first(),
				a.AvatarLarger.first(),
			)
		}

		var stats statistics
		if item.Statistics != nil {
			stats = *item.Statistics
		}
		works = append(works, platform.Work{
			WorkId:      item.AwemeId,
			Platform:    platform.Douyin,
			Title:       normalize.Truncate(item.Desc, titleMaxLen),
			PublishTime: normalize.UnixTime(item.CreateTime),
			CoverUrl:    item.Cover.first(),
			Url:         "https://www.douyin.com/video/" + item.AwemeId,
			Views:       normalize.Int(stats.PlayCount),
			Likes:       normalize.Int(stats.DiggCount),
			Comments:    normalize.Int(stats.CommentCount),
			Shares:      normalize.Int(stats.ShareCount),
			Collects:    normalize.Int(stats.CollectCount),
		})
	}

	account.ApplyTotals(works)
	return account, works
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		// json numbers decode as float64; uids are integral
		return fmt.Sprintf("%.0f", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func firstPositive(values ...int64) int64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
