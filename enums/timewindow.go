package enums

import "fmt"

// TimeWindow is the ranking period of a top listing.
type TimeWindow string

const (
	TimeWindowNone  TimeWindow = ""
	TimeWindowHour  TimeWindow = "hour"
	TimeWindowDay   TimeWindow = "day"
	TimeWindowWeek  TimeWindow = "week"
	TimeWindowMonth TimeWindow = "month"
	TimeWindowYear  TimeWindow = "year"
	TimeWindowAll   TimeWindow = "all"
)

func ParseTimeWindow(s string) (TimeWindow, error) {
	switch w := TimeWindow(s); w {
	case TimeWindowNone, TimeWindowHour, TimeWindowDay, TimeWindowWeek,
		TimeWindowMonth, TimeWindowYear, TimeWindowAll:
		return w, nil
	}
	return TimeWindowNone, fmt.Errorf("invalid time window: %q", s)
}
