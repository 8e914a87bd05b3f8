package source

import "time"

// MaxNameLength bounds source names.
const MaxNameLength = 50

// Source is an intake channel leads arrive through (a bot, a group, a form).
type Source struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
