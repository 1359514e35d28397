package syncclient

import "encoding/json"

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type User struct {
	Id       string `json:"id"`
	Username string `json:"username"`
}

type PlayerState struct {
	IsPlaying   bool    `json:"is_playing"`
	CurrentTime float64 `json:"current_time"`
	LastUpdated int64   `json:"last_updated"`
}

type RoomCreated struct {
	RoomId   string  `json:"room_id"`
	VideoUrl string  `json:"video_url"`
	ShareUrl *string `json:"share_url"`
}

type RoomJoined struct {
	RoomId      string      `json:"room_id"`
	VideoUrl    string      `json:"video_url"`
	PlayerState PlayerState `json:"player_state"`
	Users       []User      `json:"users"`
	ShareUrl    *string     `json:"share_url"`
}

type RoomNotFound struct {
	RoomId string `json:"room_id"`
}

type UserJoined struct {
	UserId   string `json:"user_id"`
	Username string `json:"username"`
	Users    []User `json:"users"`
}

type UserLeft struct {
	UserId string `json:"user_id"`
	Users  []User `json:"users"`
}

type PublicUrl struct {
	Url string `json:"url"`
}

type playerEvent struct {
	CurrentTime float64 `json:"current_time"`
}

type createRoomPayload struct {
	VideoUrl string `json:"video_url"`
}

type joinRoomPayload struct {
	RoomId   string `json:"room_id"`
	Username string `json:"username,omitempty"`
}

type playerActionPayload struct {
	RoomId      string  `json:"room_id"`
	CurrentTime float64 `json:"current_time"`
}
