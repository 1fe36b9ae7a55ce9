// Package policy holds the pure access decisions of the room: message
// visibility, mutation ownership and presence expiry. Nothing here touches
// the store.
package policy

import (
	"time"

	"batepapo-service/internal/models"
)

// Visible reports whether viewer may see msg. Private messages leak only to
// their sender and their recipient; every other kind is public.
func Visible(msg models.Message, viewer string) bool {
	if msg.Type != models.KindPrivate {
		return true
	}
	return msg.To == viewer || msg.To == models.Broadcast || msg.From == viewer
}

// CanMutate reports whether actor may edit or delete msg. Only the original
// sender may, regardless of kind.
func CanMutate(msg models.Message, actor string) bool {
	return msg.From == actor
}

// Expired reports whether a participant is past the inactivity threshold at
// the given instant.
func Expired(p models.Participant, now time.Time, ttl time.Duration) bool {
	return now.Sub(p.LastStatus) >= ttl
}
