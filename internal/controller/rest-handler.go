package controller

import (
	"net/http"

	"github.com/synccube/server/pkg/rest"
)

type statusResponse struct {
	Status          string   `json:"status"`
	PublicUrl       *string  `json:"public_url"`
	ActiveRoomIds   []string `json:"active_room_ids"`
	ConnectionCount int      `json:"connection_count"`
}

func (c controller) status(w http.ResponseWriter, r *http.Request) {
	statusResp := c.roomService.Status(r.Context())

	rest.WriteJSON(w, http.StatusOK, statusResponse{
		Status:          "ok",
		PublicUrl:       statusResp.PublicUrl,
		ActiveRoomIds:   statusResp.ActiveRoomIds,
		ConnectionCount: statusResp.ConnectionCount,
	})
}
