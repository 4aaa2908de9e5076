package credentials

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"creatortrack/lib/platform"
	"creatortrack/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestCookieLifecycle(t *testing.T) {
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "services/credentials",
	})
	defer cleanup()

	path := filepath.Join(t.TempDir(), "credentials.json")
	err := os.WriteFile(path, []byte(`{
		// operator-maintained file, comments allowed
		"douyin": { "enabled": true, "cookie": "sessionid=abc" },
		"shipinhao": { "enabled": false }
	}`), 0o600)
	require.NoError(t, err)

	service := NewService(path)
	ctx := context.Background()

	entry, err := service.Get(ctx, platform.Douyin)
	require.NoError(t, err)
	require.True(t, entry.Enabled)
	require.Equal(t, "sessionid=abc", entry.Cookie)

	// unlisted platform reads as disabled
	entry, err = service.Get(ctx, platform.Xiaohongshu)
	require.NoError(t, err)
	require.False(t, entry.Enabled)
	require.Empty(t, entry.Cookie)

	err = service.SetCookie(ctx, platform.Douyin, "sessionid=def", "interactive_login")
	require.NoError(t, err)

	entry, err = service.Get(ctx, platform.Douyin)
	require.NoError(t, err)
	require.True(t, entry.Enabled)
	require.Equal(t, "sessionid=def", entry.Cookie)
	require.Equal(t, "interactive_login", entry.CookieSource)
	require.NotEmpty(t, entry.CookieUpdatedAt)

	// other platforms survive the rewrite
	entry, err = service.Get(ctx, platform.Shipinhao)
	require.NoError(t, err)
	require.False(t, entry.Enabled)
}

func TestMissingFileIsEmpty(t *testing.T) {
	service := NewService(filepath.Join(t.TempDir(), "nope.json"))

	store, err := service.All(context.Background())
	require.NoError(t, err)
	require.Empty(t, store)
}
