package model

// Album is the album aggregate as served to clients. Songs and the like
// count are recomputed from the database on every cache miss; the cache
// never originates them.
type Album struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Year     int           `json:"year"`
	CoverURL *string       `json:"coverUrl"`
	Songs    []SongSummary `json:"songs"`
}
