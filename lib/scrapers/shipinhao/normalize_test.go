package shipinhao

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeFromCapturedResponses(t *testing.T) {
	buf := NewBuffer()

	buf.handleAuth([]byte(`{
		"errCode": 0,
		"data": {"finderUser": {"nickname": "频道主", "uniqId": "ch-001", "fansCount": 2048, "headImgUrl": "https://img.example/head.jpg"}}
	}`))
	buf.handlePosts([]byte(`{
		"errCode": 0,
		"data": {"list": [
			{"objectId": "p1", "desc": "这是一条很普通的视频描述", "createTime": 1710469800,
			 "coverUrl": "https://img.example/p1.jpg",
			 "readCount": 30, "likeCount": 6, "commentCount": 2, "forwardCount": 1, "favCount": 3},
			{"objectId": "p2", "desc": {"shortTitle": "结构化"}, "title": "直播回放", "readCount": 10}
		]}
	}`))

	account, works := Normalize(buf)

	require.Equal(t, "频道主", account.AccountName)
	require.Equal(t, "ch-001", account.AccountId)
	require.Equal(t, int64(2048), account.Followers)

	require.Len(t, works, 2)
	require.Equal(t, "这是一条很普通的视频描述", works[0].Title)
	// structured desc falls back to the title field
	require.Equal(t, "直播回放", works[1].Title)
	require.Equal(t, "", works[1].Url)

	require.Equal(t, int64(40), account.TotalViews)
	require.Equal(t, int64(6), account.TotalLikes)
}

func TestPostTitleFallbacks(t *testing.T) {
	require.Equal(t, fallbackTitle, postTitle(post{}))
	require.Equal(t, fallbackTitle, postTitle(post{Desc: map[string]any{"x": 1}}))
	require.Equal(t, "标题", postTitle(post{Desc: map[string]any{}, Title: "标题"}))

	long := strings.Repeat("字", 60)
	require.Equal(t, 50, len([]rune(postTitle(post{Desc: long}))))
}

func TestNeedLoginErrCode(t *testing.T) {
	buf := NewBuffer()
	buf.handleAuth([]byte(`{"errCode": 300334}`))

	require.True(t, buf.NeedLogin())
	require.False(t, buf.AuthCaptured())
}

func TestResetClearsEverything(t *testing.T) {
	buf := NewBuffer()
	buf.handleAuth([]byte(`{"errCode": 0, "data": {"finderUser": {"nickname": "x"}}}`))
	buf.handlePosts([]byte(`{"errCode": 0, "data": {"list": [{"objectId": "p1"}]}}`))
	buf.handleAuth([]byte(`{"errCode": 300334}`))

	buf.Reset()

	require.False(t, buf.AuthCaptured())
	require.False(t, buf.NeedLogin())
	_, works := Normalize(buf)
	require.Empty(t, works)
}
