package xiaohongshu

import (
	"testing"

	"creatortrack/lib/platform"

	"github.com/stretchr/testify/require"
)

func TestNormalizeFromCapturedResponses(t *testing.T) {
	buf := NewBuffer()

	buf.handleUser([]byte(`{
		"code": 0,
		"data": {"userName": "旅行日记", "redId": "12345678", "userAvatar": "https://img.example/avatar.jpg"}
	}`))
	buf.handleOverview([]byte(`{
		"code": 0,
		"data": {"seven": {"fans_count": "1024"}}
	}`))
	buf.handleNotes([]byte(`{
		"code": 0,
		"data": {"note_infos": [
			{"id": "n1", "title": "第一篇", "post_time": 1710469800000, "cover_url": "https://img.example/c1.jpg",
			 "read_count": 10, "like_count": 3, "comment_count": 1, "share_count": 2, "fav_count": 4},
			{"id": "n2", "title": "第二篇", "read_count": 5, "like_count": "7", "comment_count": null}
		]}
	}`))

	account, works := Normalize(buf)

	require.Equal(t, platform.Xiaohongshu, account.Platform)
	require.Equal(t, "旅行日记", account.AccountName)
	require.Equal(t, "12345678", account.AccountId)
	require.Equal(t, int64(1024), account.Followers)

	require.Len(t, works, 2)
	require.Equal(t, "https://www.xiaohongshu.com/explore/n1", works[0].Url)
	require.Equal(t, "2024-03-15 10:30", works[0].PublishTime)
	require.Equal(t, "", works[1].PublishTime)
	require.Equal(t, int64(7), works[1].Likes)
	require.Equal(t, int64(0), works[1].Comments)

	// account totals are sums over the observed works
	require.Equal(t, int64(15), account.TotalViews)
	require.Equal(t, int64(10), account.TotalLikes)
	require.Equal(t, int64(2), account.TotalWorks)
}

func TestNormalizePaginatedNotesAppend(t *testing.T) {
	buf := NewBuffer()
	buf.handleNotes([]byte(`{"code": 0, "data": {"note_infos": [{"id": "a", "read_count": 1}]}}`))
	buf.handleNotes([]byte(`{"code": 0, "data": {"note_infos": [{"id": "b", "read_count": 2}]}}`))

	_, works := Normalize(buf)
	require.Len(t, works, 2)
}

func TestCaptureIgnoresMalformedAndErrorPayloads(t *testing.T) {
	buf := NewBuffer()

	buf.handleUser([]byte(`not json at all`))
	buf.handleUser([]byte(`{"code": 500, "data": {"userName": "bad"}}`))
	buf.handleOverview([]byte(`{"code": 0}`))
	buf.handleNotes([]byte(`{"code": 0, "data": {"note_infos": "unexpected shape"}}`))

	require.False(t, buf.AuthCaptured())

	account, works := Normalize(buf)
	require.Empty(t, works)
	require.Equal(t, "", account.AccountName)
	require.Equal(t, int64(0), account.Followers)
}
