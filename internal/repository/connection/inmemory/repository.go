package inmemory

import (
	"sync"

	"github.com/synccube/server/internal/repository/connection"
	"github.com/synccube/server/pkg/wsrouter"
)

// repo tracks live websocket connections and, per client, the set of room
// ids it has joined. The room index makes disconnect cleanup proportional
// to the rooms the client actually joined instead of a scan over all rooms.
type repo struct {
	connList map[*wsrouter.Conn]string
	idList   map[string]*wsrouter.Conn
	roomList map[string]map[string]struct{}
	mu       sync.RWMutex
}

func NewRepo() *repo {
	return &repo{
		connList: make(map[*wsrouter.Conn]string),
		idList:   make(map[string]*wsrouter.Conn),
		roomList: make(map[string]map[string]struct{}),
	}
}

func (r *repo) Add(conn *wsrouter.Conn, clientId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connList[conn] != "" || r.idList[clientId] != nil {
		return connection.ErrAlreadyExists
	}

	r.connList[conn] = clientId
	r.idList[clientId] = conn
	r.roomList[clientId] = make(map[string]struct{})

	return nil
}

func (r *repo) AddRoom(clientId string, roomId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rooms, ok := r.roomList[clientId]
	if !ok {
		return connection.ErrNotFound
	}

	rooms[roomId] = struct{}{}

	return nil
}

// Remove discards the client's entry and returns the room ids it had
// joined so the caller can run room cleanup.
func (r *repo) Remove(clientId string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.idList[clientId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	roomIds := make([]string, 0, len(r.roomList[clientId]))
	for roomId := range r.roomList[clientId] {
		roomIds = append(roomIds, roomId)
	}

	delete(r.connList, conn)
	delete(r.idList, clientId)
	delete(r.roomList, clientId)

	return roomIds, nil
}

func (r *repo) GetConn(clientId string) (*wsrouter.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.idList[clientId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

func (r *repo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.idList)
}
