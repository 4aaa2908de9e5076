// Package credentials stores per-platform session cookies in a json5
// config file. The engine only ever consumes and refreshes the cookie
// field; the rest of the file belongs to the operator.
package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"creatortrack/lib/configutil"
	"creatortrack/lib/platform"
	"creatortrack/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/credentials")

type Entry struct {
	Enabled         bool   `json:"enabled"`
	Cookie          string `json:"cookie"`
	CookieUpdatedAt string `json:"cookie_updated_at,omitempty"`
	CookieSource    string `json:"cookie_source,omitempty"`
}

type Service struct {
	path string
}

func NewService(path string) Service {
	return Service{path: path}
}

func (s Service) read() (map[platform.Platform]Entry, error) {
	store, err := configutil.ReadConfig[map[platform.Platform]Entry](s.path)
	if os.IsNotExist(err) {
		return map[platform.Platform]Entry{}, nil
	}
	if err != nil {
		return nil, err
	}
	if store == nil {
		store = map[platform.Platform]Entry{}
	}
	return store, nil
}

// Get returns the stored entry for the platform. A platform absent
// from the file is disabled, not an error.
func (s Service) Get(ctx context.Context, p platform.Platform) (Entry, error) {
	_, span := tracer.Start(ctx, "Get")
	defer span.End()

	span.SetAttributes(attribute.String("platform", string(p)))

	store, err := s.read()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Entry{}, err
	}
	return store[p], nil
}

func (s Service) All(ctx context.Context) (map[platform.Platform]Entry, error) {
	_, span := tracer.Start(ctx, "All")
	defer span.End()

	store, err := s.read()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return store, nil
}

// SetCookie writes a refreshed cookie back for the platform, stamping
// cookie_updated_at and cookie_source. All other fields of the entry
// and all other platforms' entries pass through untouched.
func (s Service) SetCookie(ctx context.Context, p platform.Platform, cookie, source string) error {
	_, span := tracer.Start(ctx, "SetCookie")
	defer span.End()

	span.SetAttributes(
		attribute.String("platform", string(p)),
		attribute.String("source", source),
	)

	store, err := s.read()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	entry := store[p]
	entry.Cookie = cookie
	entry.CookieUpdatedAt = timezone.Now().Format(time.DateTime)
	entry.CookieSource = source
	store[p] = entry

	data, err := json.MarshalIndent(store, "", "    ")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	err = os.WriteFile(s.path, data, 0o600)
	if err != nil {
		err = fmt.Errorf("write credentials: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
