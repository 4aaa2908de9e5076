package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Shanghai")
	if err != nil {
		panic(err)
	}
}

// force timezone to be in Shanghai because the platforms report
// publish times in China local time and the daily snapshot key is a
// calendar date, which would shift around midnight if the collector
// host happens to run in another timezone.
func Now() time.Time {
	return time.Now().In(Location)
}

// Today returns the current calendar date in the platform timezone,
// formatted the way daily_accounts keys dates ("2006-01-02").
func Today() string {
	return Now().Format(time.DateOnly)
}
