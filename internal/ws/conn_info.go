package ws

import "time"

type ConnInfo struct {
	ConnID      string
	Viewer      string
	IP          string
	RequestID   string
	ConnectedAt time.Time
}
