package room

import "time"

type User struct {
	Id       string `json:"id"`
	Username string `json:"username"`
}

type PlayerState struct {
	IsPlaying   bool      `json:"is_playing"`
	CurrentTime float64   `json:"current_time"`
	LastUpdated time.Time `json:"last_updated"`
}

type Room struct {
	Id       string      `json:"id"`
	VideoUrl string      `json:"video_url"`
	HostId   string      `json:"host_id"`
	Users    []User      `json:"users"`
	Player   PlayerState `json:"player"`
}
