package model

// Collaboration grants a non-owner user access to a playlist. At most
// one row may exist per (playlist, user) pair.
type Collaboration struct {
	ID         string `json:"id"`
	PlaylistID string `json:"playlistId"`
	UserID     string `json:"userId"`
}
