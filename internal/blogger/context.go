package blogger

import (
	"fmt"
	"time"
)

// DayPart names the part of the day a post is written in.
func DayPart(t time.Time) string {
	switch hour := t.Hour(); {
	case hour < 10:
		return "утро"
	case hour < 17:
		return "день"
	default:
		return "вечер"
	}
}

// WeekPart returns "выходные" on Saturday and Sunday, "будни" otherwise.
func WeekPart(t time.Time) string {
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return "выходные"
	}
	return "будни"
}

// Season returns the calendar season of t.
func Season(t time.Time) string {
	switch t.Month() {
	case time.December, time.January, time.February:
		return "Зима"
	case time.March, time.April, time.May:
		return "Весна"
	case time.June, time.July, time.August:
		return "Лето"
	default:
		return "Осень"
	}
}

// TimeContext renders "day part, week part, season", e.g. "утро, будни, Весна".
func TimeContext(t time.Time) string {
	return fmt.Sprintf("%s, %s, %s", DayPart(t), WeekPart(t), Season(t))
}
