package douyin

import (
	"testing"

	"creatortrack/lib/platform"

	"github.com/stretchr/testify/require"
)

func TestNormalizeFromWorkList(t *testing.T) {
	buf := NewBuffer()
	buf.handleWorkList([]byte(`{
		"status_code": 0,
		"aweme_list": [
			{
				"aweme_id": "7001",
				"desc": "第一条视频",
				"create_time": 1710469800,
				"author": {
					"nickname": "测试账号",
					"uid": 99887766,
					"follower_count": 0,
					"mplatform_followers_count": 512,
					"avatar_thumb": {"url_list": []},
					"avatar_medium": {"url_list": ["https://img.example/m.jpg"]}
				},
				"cover": {"url_list": ["https://img.example/cover.jpg"]},
				"statistics": {"play_count": 100, "digg_count": 20, "comment_count": 5, "share_count": 2, "collect_count": 1}
			},
			{
				"aweme_id": "7002",
				"desc": "第二条",
				"statistics": {"play_count": "50", "digg_count": 10}
			}
		]
	}`))

	account, works := Normalize(buf)

	require.Equal(t, "测试账号", account.AccountName)
	require.Equal(t, "99887766", account.AccountId)
	// follower_count of 0 falls through to the mplatform gauge
	require.Equal(t, int64(512), account.Followers)
	// empty thumb url list falls through to the medium avatar
	require.Equal(t, "https://img.example/m.jpg", account.AvatarUrl)

	require.Len(t, works, 2)
	require.Equal(t, "https://www.douyin.com/video/7001", works[0].Url)
	require.Equal(t, "2024-03-15 10:30", works[0].PublishTime)
	require.Equal(t, "", works[1].PublishTime)
	require.Equal(t, int64(50), works[1].Views)
	require.Equal(t, int64(0), works[1].Collects)

	require.Equal(t, int64(150), account.TotalViews)
	require.Equal(t, int64(30), account.TotalLikes)
	require.Equal(t, int64(2), account.TotalWorks)
}

func TestWorkListPagesAccumulate(t *testing.T) {
	buf := NewBuffer()
	buf.handleWorkList([]byte(`{"status_code": 0, "aweme_list": [{"aweme_id": "1"}]}`))
	buf.handleWorkList([]byte(`{"status_code": 0, "aweme_list": [{"aweme_id": "2"}]}`))

	require.True(t, buf.AuthCaptured())
	_, works := Normalize(buf)
	require.Len(t, works, 2)
}

func TestErrorEnvelopeLeavesBufferUnset(t *testing.T) {
	buf := NewBuffer()
	buf.handleWorkList([]byte(`{"status_code": 8, "aweme_list": [{"aweme_id": "1"}]}`))
	buf.handleWorkList([]byte(`<html>not json</html>`))

	require.False(t, buf.AuthCaptured())
	require.True(t, buf.Empty())

	account, works := Normalize(buf)
	require.Empty(t, works)
	require.Equal(t, platform.Douyin, account.Platform)
	require.Equal(t, int64(0), account.TotalWorks)
}
