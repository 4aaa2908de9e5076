package xiaohongshu

import (
	"context"
	"errors"
	"testing"

	"creatortrack/lib/platform"

	"github.com/stretchr/testify/require"
)

func TestAssembleCarriesPartialWorksOnNavigationFailure(t *testing.T) {
	buf := NewBuffer()
	buf.handleUser([]byte(`{"code": 0, "data": {"userName": "旅行日记", "redId": "1"}}`))
	buf.handleNotes([]byte(`{"code": 0, "data": {"note_infos": [
		{"id": "n1", "title": "第一篇", "read_count": 10, "like_count": 3}
	]}}`))

	// the last route timed out after the note list was already captured
	res := assemble(context.Background(), buf, errors.New("nav timeout"),
		"https://creator.xiaohongshu.com/statistics/data-analysis")

	require.Equal(t, platform.StatusError, res.Status)
	require.Contains(t, res.Message, "nav timeout")
	require.Equal(t, "旅行日记", res.Account.AccountName)
	require.Len(t, res.Works, 1)
	require.Equal(t, "n1", res.Works[0].WorkId)
}

func TestAssembleReportsPendingLoginOnLoginRedirect(t *testing.T) {
	buf := NewBuffer()
	buf.handleUser([]byte(`{"code": 0, "data": {"userName": "旅行日记", "redId": "1"}}`))

	res := assemble(context.Background(), buf, nil,
		"https://creator.xiaohongshu.com/login?redirect=/statistics")

	require.Equal(t, platform.StatusPendingLogin, res.Status)
	require.Equal(t, "旅行日记", res.Account.AccountName)
}

func TestAssembleSucceedsWhenAuthenticated(t *testing.T) {
	buf := NewBuffer()
	buf.handleUser([]byte(`{"code": 0, "data": {"userName": "旅行日记", "redId": "1"}}`))
	buf.handleOverview([]byte(`{"code": 0, "data": {"seven": {"fans_count": 42}}}`))
	buf.handleNotes([]byte(`{"code": 0, "data": {"note_infos": [{"id": "n1", "read_count": 10}]}}`))

	res := assemble(context.Background(), buf, nil,
		"https://creator.xiaohongshu.com/statistics/data-analysis")

	require.Equal(t, platform.StatusSuccess, res.Status)
	require.EqualValues(t, 42, res.Account.Followers)
	require.Len(t, res.Works, 1)
}
