package xiaohongshu

import (
	"creatortrack/lib/normalize"
	"creatortrack/lib/platform"
)

const titleMaxLen = 80

// Normalize maps whatever the buffer captured into the unified
// schema. Pure with respect to the buffer snapshot: missing slots
// yield defaults, never errors.
func Normalize(b *Buffer) (platform.Account, []platform.Work) {
	user, overview, notes := b.snapshot()

	account := platform.Account{Platform: platform.Xiaohongshu}

	if user != nil {
		account.AccountName = normalize.FirstNonEmpty(user.UserName, user.Name)
		account.AccountId = normalize.FirstNonEmpty(user.RedId, user.UserId)
		account.AvatarUrl = normalize.FirstNonEmpty(user.UserAvatar, user.Avatar)
	}
	if overview != nil {
		account.Followers = normalize.Int(overview.Seven.FansCount)
	}

	works := make([]platform.Work, 0, len(notes))
	for _, note := range notes {
		works = append(works, platform.Work{
			WorkId:      note.Id,
			Platform:    platform.Xiaohongshu,
			Title:       normalize.Truncate(note.Title, titleMaxLen),
			PublishTime: normalize.UnixTime(note.PostTime),
			CoverUrl:    note.CoverUrl,
			Url:         "https://www.xiaohongshu.com/explore/" + note.Id,
			Views:       normalize.Int(note.ReadCount),
			Likes:       normalize.Int(note.LikeCount),
			Comments:    normalize.Int(note.CommentCount),
			Shares:      normalize.Int(note.ShareCount),
			Collects:    normalize.Int(note.FavCount),
		})
	}

	account.ApplyTotals(works)
	return account, works
}
