// Package shipinhao collects creator metrics from the weixin channels
// dashboard. Its sessions expire within hours, so this collector is
// the main consumer of the interactive login flow.
package shipinhao

import (
	"encoding/json"
	"sync"

	"creatortrack/lib/browser"
)

// errCode the auth endpoint returns for a dead session
const errCodeNeedLogin = 300334

type envelope struct {
	ErrCode int             `json:"errCode"`
	Data    json.RawMessage `json:"data"`
}

type authData struct {
	FinderUser *finderUser `json:"finderUser"`
}

type finderUser struct {
	Nickname       string `json:"nickname"`
	UniqId         string `json:"uniqId"`
	FinderUsername string `json:"finderUsername"`
	FansCount      any    `json:"fansCount"`
	HeadImgUrl     string `json:"headImgUrl"`
}

type postList struct {
	List []post `json:"list"`
}

type post struct {
	ObjectId string `json:"objectId"`

	// free text for most posts, a structured object for some live
	// replays; anything non-string falls back to the title field
	Desc         any    `json:"desc"`
	Title        string `json:"title"`
	CreateTime   int64  `json:"createTime"` // seconds
	CoverUrl     string `json:"coverUrl"`
	ReadCount    any    `json:"readCount"`
	LikeCount    any    `json:"likeCount"`
	CommentCount any    `json:"commentCount"`
	ForwardCount any    `json:"forwardCount"`
	FavCount     any    `json:"favCount"`
}

type Buffer struct {
	mu        sync.Mutex
	auth      *authData
	posts     []post
	needLogin bool
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Rules() []browser.CaptureRule {
	return []browser.CaptureRule{
		{Substr: "/auth/auth_data", Handle: b.handleAuth},
		{Substr: "/post/post_list", Handle: b.handlePosts},
	}
}

func (b *Buffer) handleAuth(body []byte) {
	var env envelope
	if json.Unmarshal(body, &env) != nil {
		return
	}
	if env.ErrCode == errCodeNeedLogin {
		b.mu.Lock()
		b.needLogin = true
		b.mu.Unlock()
		return
	}
	if env.ErrCode != 0 {
		return
	}
	var auth authData
	if json.Unmarshal(env.Data, &auth) != nil {
		return
	}
	b.mu.Lock()
	b.auth = &auth
	b.mu.Unlock()
}

func (b *Buffer) handlePosts(body []byte) {
	var env envelope
	if json.Unmarshal(body, &env) != nil || env.ErrCode != 0 {
		return
	}
	var list postList
	if json.Unmarshal(env.Data, &list) != nil {
		return
	}
	b.mu.Lock()
	b.posts = append(b.posts, list.List...)
	b.mu.Unlock()
}

func (b *Buffer) AuthCaptured() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.auth != nil
}

func (b *Buffer) NeedLogin() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.needLogin
}

// Reset clears everything before re-attaching the rules to the headed
// login context, so stale headless captures can't masquerade as a
// fresh auth payload.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.auth = nil
	b.posts = nil
	b.needLogin = false
}

func (b *Buffer) snapshot() (*authData, []post) {
	b.mu.Lock()
	defer b.mu.Unlock()
	posts := make([]post, len(b.posts))
	copy(posts, b.posts)
	return b.auth, posts
}
