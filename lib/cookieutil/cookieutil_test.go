package cookieutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cookies := Parse("sessionid=abc123; uid=42; token=a=b=c; garbage; =novalue")
	require.Equal(t, []Cookie{
		{Name: "sessionid", Value: "abc123"},
		{Name: "uid", Value: "42"},
		{Name: "token", Value: "a=b=c"},
	}, cookies)
}

func TestParseEmpty(t *testing.T) {
	require.Empty(t, Parse(""))
	require.Empty(t, Parse(";;;"))
}

func TestSerializeRoundTrip(t *testing.T) {
	original := "sessionid=abc123; uid=42"
	require.Equal(t, original, Serialize(Parse(original)))
}
