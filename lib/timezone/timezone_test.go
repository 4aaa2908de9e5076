package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestToday(t *testing.T) {
	today := Today()
	parsed, err := time.ParseInLocation(time.DateOnly, today, Location)
	require.NoError(t, err)
	require.Equal(t, Now().Year(), parsed.Year())
}

func TestNowUsesLocation(t *testing.T) {
	require.Equal(t, "Asia/Shanghai", Now().Location().String())
}
