package collector

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"creatortrack/lib/platform"
	"creatortrack/lib/testutil"
	"creatortrack/services/credentials"
	"creatortrack/services/snapshots"
	snapshotsdb "creatortrack/services/snapshots/db"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupCollector(t *testing.T, creds string, collectors map[platform.Platform]CollectFunc) (Service, snapshots.Service, func()) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/collector",
		DbSchema: snapshotsdb.Schema,
	})

	path := filepath.Join(t.TempDir(), "credentials.json")
	err := os.WriteFile(path, []byte(creds), 0o600)
	require.NoError(t, err)

	snaps := snapshots.NewService(setup.DB)
	service := NewService(credentials.NewService(path), snaps, collectors)
	return service, snaps, cleanup
}

func successResult(p platform.Platform, followers int64) platform.Result {
	acct := platform.Account{Platform: p, Followers: followers}
	works := []platform.Work{
		{WorkId: string(p) + "-w1", Platform: p, Views: 10},
	}
	acct.ApplyTotals(works)
	return platform.Result{Status: platform.StatusSuccess, Account: acct, Works: works}
}

func TestRunPersistsSuccessOnly(t *testing.T) {
	collectors := map[platform.Platform]CollectFunc{
		platform.Xiaohongshu: func(ctx context.Context, opts Options) platform.Result {
			return successResult(platform.Xiaohongshu, 100)
		},
		platform.Douyin: func(ctx context.Context, opts Options) platform.Result {
			return platform.EmptyResult(platform.Douyin, platform.StatusPendingLogin, "waiting for login")
		},
		platform.Shipinhao: func(ctx context.Context, opts Options) platform.Result {
			return platform.EmptyResult(platform.Shipinhao, platform.StatusError, "nav timeout")
		},
	}
	service, snaps, cleanup := setupCollector(t, `{
		"xiaohongshu": { "enabled": true, "cookie": "a=1" },
		"douyin": { "enabled": true, "cookie": "b=2" },
		"shipinhao": { "enabled": true, "cookie": "c=3" }
	}`, collectors)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	results, err := service.Run(ctx, RunOptions{})
	require.NoError(t, err)
	require.Len(t, results, 3)

	_, ok, err := snaps.LatestAccount(ctx, platform.Xiaohongshu)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = snaps.LatestAccount(ctx, platform.Douyin)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = snaps.LatestAccount(ctx, platform.Shipinhao)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRunSkipsDisabledPlatforms(t *testing.T) {
	called := map[platform.Platform]bool{}
	collectors := map[platform.Platform]CollectFunc{}
	for _, p := range platform.All() {
		p := p
		collectors[p] = func(ctx context.Context, opts Options) platform.Result {
			called[p] = true
			return successResult(p, 1)
		}
	}
	service, _, cleanup := setupCollector(t, `{
		"douyin": { "enabled": true, "cookie": "b=2" }
	}`, collectors)
	defer cleanup()

	results, err := service.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, called[platform.Douyin])
	require.False(t, called[platform.Xiaohongshu])
	require.False(t, called[platform.Shipinhao])
}

func TestRunIsolatesPanics(t *testing.T) {
	collectors := map[platform.Platform]CollectFunc{
		platform.Xiaohongshu: func(ctx context.Context, opts Options) platform.Result {
			panic("unexpected payload shape")
		},
		platform.Douyin: func(ctx context.Context, opts Options) platform.Result {
			return successResult(platform.Douyin, 10)
		},
	}
	service, snaps, cleanup := setupCollector(t, `{
		"xiaohongshu": { "enabled": true, "cookie": "a=1" },
		"douyin": { "enabled": true, "cookie": "b=2" }
	}`, collectors)
	defer cleanup()

	ctx := context.Background()
	results, err := service.Run(ctx, RunOptions{
		Platforms: []platform.Platform{platform.Xiaohongshu, platform.Douyin},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, platform.StatusError, results[0].Status)
	require.Contains(t, results[0].Message, "panicked")
	require.NotNil(t, results[0].Works)

	require.Equal(t, platform.StatusSuccess, results[1].Status)
	_, ok, err := snaps.LatestAccount(ctx, platform.Douyin)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRunContinuesWhenPersistFails(t *testing.T) {
	called := map[platform.Platform]bool{}
	collectors := map[platform.Platform]CollectFunc{
		platform.Xiaohongshu: func(ctx context.Context, opts Options) platform.Result {
			called[platform.Xiaohongshu] = true
			return successResult(platform.Xiaohongshu, 100)
		},
		platform.Douyin: func(ctx context.Context, opts Options) platform.Result {
			called[platform.Douyin] = true
			return platform.EmptyResult(platform.Douyin, platform.StatusPendingLogin, "waiting for login")
		},
	}

	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/collector",
		DbSchema: snapshotsdb.Schema,
	})
	defer cleanup()

	path := filepath.Join(t.TempDir(), "credentials.json")
	err := os.WriteFile(path, []byte(`{
		"xiaohongshu": { "enabled": true, "cookie": "a=1" },
		"douyin": { "enabled": true, "cookie": "b=2" }
	}`), 0o600)
	require.NoError(t, err)

	service := NewService(credentials.NewService(path), snapshots.NewService(setup.DB), collectors)

	// every write from here on fails; the run must still visit every
	// platform
	require.NoError(t, setup.DB.Close())

	results, err := service.Run(context.Background(), RunOptions{
		Platforms: []platform.Platform{platform.Xiaohongshu, platform.Douyin},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.True(t, called[platform.Xiaohongshu])
	require.True(t, called[platform.Douyin])

	require.Equal(t, platform.StatusError, results[0].Status)
	require.Contains(t, results[0].Message, "persist snapshot")
	// the scraped data survives even though nothing was stored
	require.EqualValues(t, 100, results[0].Account.Followers)

	require.Equal(t, platform.StatusPendingLogin, results[1].Status)
}

func TestRunContinuesWhenCredentialsUnreadable(t *testing.T) {
	called := map[platform.Platform]bool{}
	collectors := map[platform.Platform]CollectFunc{}
	for _, p := range platform.All() {
		p := p
		collectors[p] = func(ctx context.Context, opts Options) platform.Result {
			called[p] = true
			return successResult(p, 1)
		}
	}
	service, _, cleanup := setupCollector(t, `{ this is not json5 ][`, collectors)
	defer cleanup()

	results, err := service.Run(context.Background(), RunOptions{
		Platforms: []platform.Platform{platform.Xiaohongshu, platform.Douyin},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, res := range results {
		require.Equal(t, platform.StatusError, res.Status)
		require.Contains(t, res.Message, "read credentials")
	}
	require.False(t, called[platform.Xiaohongshu])
	require.False(t, called[platform.Douyin])
}

func TestRefreshedCookiePersists(t *testing.T) {
	collectors := map[platform.Platform]CollectFunc{
		platform.Shipinhao: func(ctx context.Context, opts Options) platform.Result {
			require.True(t, opts.AllowInteractiveLogin)
			opts.SaveCookie("wxuin=new")
			return successResult(platform.Shipinhao, 5)
		},
	}
	service, _, cleanup := setupCollector(t, `{
		"shipinhao": { "enabled": true, "cookie": "wxuin=old" }
	}`, collectors)
	defer cleanup()

	ctx := context.Background()
	_, err := service.Run(ctx, RunOptions{
		Platforms:             []platform.Platform{platform.Shipinhao},
		AllowInteractiveLogin: true,
	})
	require.NoError(t, err)

	entry, err := service.credentials.Get(ctx, platform.Shipinhao)
	require.NoError(t, err)
	require.Equal(t, "wxuin=new", entry.Cookie)
	require.Equal(t, "interactive_login", entry.CookieSource)
}
