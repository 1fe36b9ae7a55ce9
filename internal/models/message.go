package models

// Message kinds. Status messages are system-authored join/leave notices and
// are never accepted from clients.
const (
	KindMessage = "message"
	KindPrivate = "private_message"
	KindStatus  = "status"
)

// Broadcast is the reserved recipient meaning "everyone in the room".
const Broadcast = "Todos"

// TimeLayout is the fixed-precision time-of-day format carried by every
// message.
const TimeLayout = "15:04:05"

// Message is a single entry of the append-only room log. Seq carries the
// insertion order; ID is the opaque handle clients use for edit and delete.
type Message struct {
	Seq  int64  `db:"seq" json:"-"`
	ID   string `db:"id" json:"id"`
	From string `db:"from_name" json:"from"`
	To   string `db:"to_name" json:"to"`
	Text string `db:"text" json:"text"`
	Type string `db:"type" json:"type"`
	Time string `db:"time" json:"time"`
}

// RoomEvent is broadcasted through websockets.
type RoomEvent struct {
	Type      string   `json:"type"`
	Message   *Message `json:"message,omitempty"`
	MessageID string   `json:"message_id,omitempty"`
}

// ValidKind reports whether kind is accepted from a client. KindStatus is
// excluded on purpose.
func ValidKind(kind string) bool {
	return kind == KindMessage || kind == KindPrivate
}
