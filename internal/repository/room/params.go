package room

import "time"

type SetRoomParams struct {
	RoomId    string
	VideoUrl  string
	Creator   User
	CreatedAt time.Time
}

type AddUserParams struct {
	RoomId string
	User   User
}

type AddUserResult struct {
	Room Room
	// Rejoined is true when the user was already a member and the room
	// was returned unchanged.
	Rejoined bool
}

type RemoveUserParams struct {
	RoomId string
	UserId string
}

type RemoveUserResult struct {
	Removed   bool
	Destroyed bool
	NewHostId string
	Users     []User
}

type UpdatePlayerStateParams struct {
	RoomId string
	// IsPlaying left nil keeps the current value (seek).
	IsPlaying   *bool
	CurrentTime float64
	UpdatedAt   time.Time
}

type UpdatePlayerStateResult struct {
	Player PlayerState
	Users  []User
}
