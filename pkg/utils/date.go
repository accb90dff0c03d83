package utils

import (
	"log"
	"time"
)

func TimeNowKST() time.Time {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return time.Now().In(loc)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
