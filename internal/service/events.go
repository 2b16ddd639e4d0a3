package service

import "github.com/google/uuid"

// Rooms of the realtime hub.
const (
	RoomAdmin  = "admin_room"
	RoomStream = "stream_room"
)

// Server -> client events.
const (
	EventNewRequest          = "new_request"
	EventRequestUpdated      = "request_updated"
	EventNotificationUpdated = "notification_updated"
	EventUserPromoted        = "user_promoted"
	EventUpdateUsers         = "update_users"
	EventNewMessage          = "new_message"
)

// Client -> server events.
const (
	EventSendMessage = "send_message"
)

// Broadcaster delivers fire-and-forget events to connected clients.
// Delivery is best effort: a slow or dead client never blocks the rest.
type Broadcaster interface {
	ToRoom(room, event string, payload interface{})
	ToUser(userID uuid.UUID, event string, payload interface{})
	ToAll(event string, payload interface{})
}
