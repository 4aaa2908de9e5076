package shipinhao

import (
	"errors"
	"testing"

	"creatortrack/lib/platform"

	"github.com/stretchr/testify/require"
)

func TestPartialResultCarriesCapturedPosts(t *testing.T) {
	buf := NewBuffer()
	buf.handleAuth([]byte(`{
		"errCode": 0,
		"data": {"finderUser": {"nickname": "频道主", "uniqId": "ch-001", "fansCount": 2048}}
	}`))
	buf.handlePosts([]byte(`{
		"errCode": 0,
		"data": {"list": [{"objectId": "p1", "desc": "视频一", "readCount": 30}]}
	}`))

	res := partialResult(buf, errors.New("nav timeout"))

	require.Equal(t, platform.StatusError, res.Status)
	require.Contains(t, res.Message, "nav timeout")
	require.Equal(t, "频道主", res.Account.AccountName)
	require.Len(t, res.Works, 1)
	require.Equal(t, "p1", res.Works[0].WorkId)
}
