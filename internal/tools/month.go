package tools

import (
	"time"
)

func lastDayOfMonth(month string) string {
	parsed, err := time.Parse("2006-01", month)
	if err != nil {
		return month + "-28"
	}
	return parsed.AddDate(0, 1, -1).Format("2006-01-02")
}
