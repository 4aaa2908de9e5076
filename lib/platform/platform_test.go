package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyTotals(t *testing.T) {
	account := Account{
		Platform: Douyin,
		// pre-existing garbage must be overwritten, not accumulated
		TotalViews: 999,
	}
	account.ApplyTotals([]Work{
		{WorkId: "a", Views: 10, Likes: 3, Comments: 1, Shares: 2, Collects: 4},
		{WorkId: "b", Views: 5, Likes: 7, Comments: 0, Shares: 1, Collects: 0},
	})

	require.Equal(t, int64(15), account.TotalViews)
	require.Equal(t, int64(10), account.TotalLikes)
	require.Equal(t, int64(1), account.TotalComments)
	require.Equal(t, int64(3), account.TotalShares)
	require.Equal(t, int64(4), account.TotalCollects)
	require.Equal(t, int64(2), account.TotalWorks)
}

func TestApplyTotalsEmpty(t *testing.T) {
	account := Account{Platform: Xiaohongshu, TotalViews: 10, TotalWorks: 3}
	account.ApplyTotals(nil)
	require.Equal(t, int64(0), account.TotalViews)
	require.Equal(t, int64(0), account.TotalWorks)
}

func TestValid(t *testing.T) {
	require.True(t, Valid("douyin"))
	require.True(t, Valid("xiaohongshu"))
	require.True(t, Valid("shipinhao"))
	require.False(t, Valid("instagram"))
	require.False(t, Valid(""))
}

func TestEmptyResult(t *testing.T) {
	res := EmptyResult(Shipinhao, StatusPendingLogin, "waiting for login")
	require.Equal(t, StatusPendingLogin, res.Status)
	require.Equal(t, Shipinhao, res.Account.Platform)
	require.NotNil(t, res.Works)
	require.Len(t, res.Works, 0)
}
