package model

import "time"

// Activity actions recorded in the playlist ledger.
const (
	ActivityAdd    = "add"
	ActivityDelete = "delete"
)

// Activity is one row of a playlist's append-only ledger, joined with
// the acting user's username and the song title for display. Rows are
// never updated or deleted.
type Activity struct {
	Username string    `json:"username"`
	Title    string    `json:"title"`
	Action   string    `json:"action"`
	Time     time.Time `json:"time"`
}
