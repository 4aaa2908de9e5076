package shipinhao

import (
	"creatortrack/lib/normalize"
	"creatortrack/lib/platform"
)

// channel post descriptions run long, cut harder than other platforms
const titleMaxLen = 50

const fallbackTitle = "视频"

func Normalize(b *Buffer) (platform.Account, []platform.Work) {
	auth, posts := b.snapshot()

	account := platform.Account{Platform: platform.Shipinhao}
	if auth != nil && auth.FinderUser != nil {
		user := auth.FinderUser
		account.AccountName = user.Nickname
		account.AccountId = normalize.FirstNonEmpty(user.UniqId, user.FinderUsername)
		account.Followers = normalize.Int(user.FansCount)
		account.AvatarUrl = user.HeadImgUrl
	}

	works := make([]platform.Work, 0, len(posts))
	for _, item := range posts {
		works = append(works, platform.Work{
			WorkId:      item.ObjectId,
			Platform:    platform.Shipinhao,
			Title:       postTitle(item),
			PublishTime: normalize.UnixTime(item.CreateTime),
			CoverUrl:    item.CoverUrl,
			// the dashboard exposes no public watch url for channel posts
			Url:      "",
			Views:    normalize.Int(item.ReadCount),
			Likes:    normalize.Int(item.LikeCount),
			Comments: normalize.Int(item.CommentCount),
			Shares:   normalize.Int(item.ForwardCount),
			Collects: normalize.Int(item.FavCount),
		})
	}

	account.ApplyTotals(works)
	return account, works
}

func postTitle(item post) string {
	if desc, ok := item.Desc.(string); ok && desc != "" {
		return normalize.Truncate(desc, titleMaxLen)
	}
	return normalize.FirstNonEmpty(item.Title, fallbackTitle)
}
