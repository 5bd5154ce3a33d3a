package service

import (
	"time"
)

// NextStreak returns the streak after a completed action at now.
// A check-in on the same or the following calendar day (in loc) extends the
// streak; a longer gap restarts it at 1.
func NextStreak(streakDays int, lastCheckinAt *time.Time, now time.Time, loc *time.Location) int {
	if lastCheckinAt == nil {
		return streakDays + 1
	}

	if calendarDaysBetween(*lastCheckinAt, now, loc) <= 1 {
		return streakDays + 1
	}

	return 1
}

func calendarDaysBetween(from, to time.Time, loc *time.Location) int {
	fy, fm, fd := from.In(loc).Date()
	ty, tm, td := to.In(loc).Date()

	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)

	return int(end.Sub(start).Hours() / 24)
}
