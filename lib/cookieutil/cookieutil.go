// Package cookieutil converts between the single cookie string kept in
// the credentials file ("name=value; name2=value2") and name/value
// pairs for the browser session.
package cookieutil

import "strings"

type Cookie struct {
	Name  string
	Value string
}

// Parse splits a stored cookie string. Fragments without '=' are
// dropped, values may themselves contain '='.
func Parse(cookieStr string) []Cookie {
	var cookies []Cookie
	for _, item := range strings.Split(cookieStr, ";") {
		item = strings.TrimSpace(item)
		name, value, found := strings.Cut(item, "=")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cookies = append(cookies, Cookie{
			Name:  name,
			Value: strings.TrimSpace(value),
		})
	}
	return cookies
}

func Serialize(cookies []Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		if c.Name == "" {
			continue
		}
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}
