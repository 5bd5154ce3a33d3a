package model

import (
	"fmt"
	"time"
)

type User struct {
	ID               string    `db:"id" json:"id"`
	Email            string    `db:"email" json:"email"`
	Name             string    `db:"name" json:"name"`
	UTCOffsetMinutes int       `db:"utc_offset_minutes" json:"utc_offset_minutes"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// Location returns the user's fixed-offset time zone.
func (u *User) Location() *time.Location {
	return FixedLocation(u.UTCOffsetMinutes)
}

func FixedLocation(offsetMinutes int) *time.Location {
	sign := "+"
	m := offsetMinutes
	if m < 0 {
		sign = "-"
		m = -m
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, m/60, m%60)
	return time.FixedZone(name, offsetMinutes*60)
}
