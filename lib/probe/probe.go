// Package probe replays the platforms' internal API endpoints over
// plain HTTP with a stored cookie, outside the browser. It exists to
// answer two operational questions quickly: is this cookie still
// alive, and what shape is this endpoint returning today.
package probe

import (
	"context"
	"fmt"
	"time"

	"creatortrack/lib/browser"
	"creatortrack/lib/platform"
	"creatortrack/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("lib/probe")

type Endpoint struct {
	Name    string
	Url     string
	Referer string
}

// Endpoints lists the known internal endpoints per platform. These are
// the same signatures the capture buffers listen for, plus a few that
// only answer over direct HTTP.
func Endpoints(p platform.Platform) []Endpoint {
	switch p {
	case platform.Xiaohongshu:
		return []Endpoint{
			{
				Name:    "personal_info",
				Url:     "https://creator.xiaohongshu.com/api/galaxy/creator/home/personal_info",
				Referer: "https://creator.xiaohongshu.com/publish/publish",
			},
			{
				Name:    "user_info",
				Url:     "https://creator.xiaohongshu.com/api/galaxy/user/info",
				Referer: "https://creator.xiaohongshu.com/publish/publish",
			},
		}
	case platform.Douyin:
		return []Endpoint{
			{
				Name:    "user_info",
				Url:     "https://creator.douyin.com/web/api/media/user/info/",
				Referer: "https://creator.douyin.com/creator/home",
			},
		}
	case platform.Shipinhao:
		return []Endpoint{
			{
				Name:    "auth_data",
				Url:     "https://channels.weixin.qq.com/cgi-bin/mmfinderassistant-bin/auth/auth_data",
				Referer: "https://channels.weixin.qq.com/platform/post/list",
			},
		}
	}
	return nil
}

type Client struct {
	http *resty.Client
}

// NewClient builds a probe client carrying the stored cookie string.
// `output` may be nil; when set, raw response bodies get dumped there.
func NewClient(cookie string, output restyutil.InstrumentOutput) *Client {
	client := resty.New()
	client.SetHeader("user-agent", browser.DefaultUserAgent)
	client.SetHeader("cookie", cookie)
	client.SetTimeout(time.Second * 30)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	restyutil.InstrumentClient(client, tracer, output)

	return &Client{http: client}
}

type Response struct {
	Endpoint   Endpoint
	StatusCode int
	Body       string
}

const bodyPreviewLen = 2000

func (c *Client) Probe(ctx context.Context, ep Endpoint) (Response, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("referer", ep.Referer).
		Get(ep.Url)
	if err != nil {
		return Response{Endpoint: ep}, fmt.Errorf("probe %s: %w", ep.Name, err)
	}

	body := res.String()
	if len(body) > bodyPreviewLen {
		body = body[:bodyPreviewLen]
	}
	return Response{
		Endpoint:   ep,
		StatusCode: res.StatusCode(),
		Body:       body,
	}, nil
}
