package room

type User struct {
	Id       string `json:"id"`
	Username string `json:"username"`
}

type PlayerState struct {
	IsPlaying   bool    `json:"is_playing"`
	CurrentTime float64 `json:"current_time"`
	LastUpdated int64   `json:"last_updated"`
}
