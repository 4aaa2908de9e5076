// Package xiaohongshu collects creator metrics from the xiaohongshu
// creator dashboard by intercepting its internal statistics endpoints.
package xiaohongshu

import (
	"encoding/json"
	"sync"

	"creatortrack/lib/browser"
)

// envelope is the platform's common response wrapper; a non-zero code
// means the payload is an error blob, not data.
type envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

type userPayload struct {
	UserName   string `json:"userName"`
	Name       string `json:"name"`
	RedId      string `json:"redId"`
	UserId     string `json:"userId"`
	UserAvatar string `json:"userAvatar"`
	Avatar     string `json:"avatar"`
}

type fansOverview struct {
	Seven struct {
		// observed as both a number and a numeric string
		FansCount any `json:"fans_count"`
	} `json:"seven"`
}

type noteList struct {
	NoteInfos []noteInfo `json:"note_infos"`
}

type noteInfo struct {
	Id       string `json:"id"`
	Title    string `json:"title"`
	PostTime int64  `json:"post_time"` // milliseconds
	CoverUrl string `json:"cover_url"`

	// counters occasionally arrive as strings, coerced at normalize time
	ReadCount    any `json:"read_count"`
	LikeCount    any `json:"like_count"`
	CommentCount any `json:"comment_count"`
	ShareCount   any `json:"share_count"`
	FavCount     any `json:"fav_count"`
}

// Buffer accumulates recognized responses for one platform run.
// Written by the capture listener, read after the session driver's
// final settle.
type Buffer struct {
	mu       sync.Mutex
	user     *userPayload
	overview *fansOverview
	notes    []noteInfo
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Rules() []browser.CaptureRule {
	return []browser.CaptureRule{
		{Substr: "/api/galaxy/user/info", Handle: b.handleUser},
		{Substr: "/fans/overall", Handle: b.handleOverview},
		{Substr: "/api/galaxy/creator/datacenter/note/analyze/list", Handle: b.handleNotes},
	}
}

func (b *Buffer) handleUser(body []byte) {
	var env envelope
	if json.Unmarshal(body, &env) != nil || env.Code != 0 {
		return
	}
	var user userPayload
	if json.Unmarshal(env.Data, &user) != nil {
		return
	}
	b.mu.Lock()
	b.user = &user
	b.mu.Unlock()
}

func (b *Buffer) handleOverview(body []byte) {
	var env envelope
	if json.Unmarshal(body, &env) != nil || env.Code != 0 || len(env.Data) == 0 {
		return
	}
	var overview fansOverview
	if json.Unmarshal(env.Data, &overview) != nil {
		return
	}
	b.mu.Lock()
	b.overview = &overview
	b.mu.Unlock()
}

// note list responses append across pages, replacing would lose
// earlier pages
func (b *Buffer) handleNotes(body []byte) {
	var env envelope
	if json.Unmarshal(body, &env) != nil || env.Code != 0 {
		return
	}
	var list noteList
	if json.Unmarshal(env.Data, &list) != nil {
		return
	}
	b.mu.Lock()
	b.notes = append(b.notes, list.NoteInfos...)
	b.mu.Unlock()
}

// AuthCaptured reports whether the user-info endpoint answered with a
// valid payload, the signal that the cookie session is live.
func (b *Buffer) AuthCaptured() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.user != nil
}

func (b *Buffer) snapshot() (*userPayload, *fansOverview, []noteInfo) {
	b.mu.Lock()
	defer b.mu.Unlock()
	notes := make([]noteInfo, len(b.notes))
	copy(notes, b.notes)
	return b.user, b.overview, notes
}
