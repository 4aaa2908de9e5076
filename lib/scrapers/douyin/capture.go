// Package douyin collects creator metrics from the douyin creator
// dashboard. Unlike the other platforms there is no dedicated profile
// endpoint; account identity rides along on the first work item.
package douyin

import (
	"encoding/json"
	"sync"

	"creatortrack/lib/browser"
)

type workListPayload struct {
	StatusCode int     `json:"status_code"`
	AwemeList  []aweme `json:"aweme_list"`
}

type aweme struct {
	AwemeId    string      `json:"aweme_id"`
	Desc       string      `json:"desc"`
	CreateTime int64       `json:"create_time"` // seconds
	Author     *author     `json:"author"`
	Cover      *mediaUrls  `json:"cover"`
	Statistics *statistics `json:"statistics"`
}

type author struct {
	Nickname string `json:"nickname"`

	// uid is numeric in some responses, a string in others
	Uid                     any        `json:"uid"`
	UniqueId                string     `json:"unique_id"`
	FollowerCount           any        `json:"follower_count"`
	MplatformFollowersCount any        `json:"mplatform_followers_count"`
	AvatarThumb             *mediaUrls `json:"avatar_thumb"`
	AvatarMedium            *mediaUrls `json:"avatar_medium"`
	AvatarLarger            *mediaUrls `json:"avatar_larger"`
}

type mediaUrls struct {
	UrlList []string `json:"url_list"`
}

func (m *mediaUrls) first() string {
	if m == nil || len(m.UrlList) == 0 {
		return ""
	}
	return m.UrlList[0]
}

type statistics struct {
	PlayCount    any `json:"play_count"`
	DiggCount    any `json:"digg_count"`
	CommentCount any `json:"comment_count"`
	ShareCount   any `json:"share_count"`
	CollectCount any `json:"collect_count"`
}

type Buffer struct {
	mu sync.Mutex
	// appended across pages
	works []aweme
	// set once any well-formed work_list envelope arrives; the
	// endpoint is auth-gated so this doubles as the auth signal
	sawWorkList bool
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Rules() []browser.CaptureRule {
	// the path moved between dashboard revisions, the broad suffix
	// catches both
	return []browser.CaptureRule{
		{Substr: "/work_list", Handle: b.handleWorkList},
	}
}

func (b *Buffer) handleWorkList(body []byte) {
	var payload workListPayload
	if json.Unmarshal(body, &payload) != nil || payload.StatusCode != 0 {
		return
	}
	b.mu.Lock()
	b.sawWorkList = true
	b.works = append(b.works, payload.AwemeList...)
	b.mu.Unlock()
}

func (b *Buffer) AuthCaptured() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sawWorkList
}

func (b *Buffer) Empty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.works) == 0
}

func (b *Buffer) snapshot() []aweme {
	b.mu.Lock()
	defer b.mu.Unlock()
	works := make([]aweme, len(b.works))
	copy(works, b.works)
	return works
}
