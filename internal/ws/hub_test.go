package ws

import (
	"testing"

	"batepapo-service/internal/models"
	"batepapo-service/internal/policy"
)

func TestHubAddAndRemoveClient(t *testing.T) {
	hub := NewHub()

	hub.AddClient(nil, ConnInfo{Viewer: "ana"})
	if len(hub.clients) != 1 {
		t.Fatalf("expected client to be registered")
	}

	hub.RemoveClient(nil)
	if len(hub.clients) != 0 {
		t.Fatalf("expected client to be removed")
	}
}

func TestHubTargetsFollowVisibility(t *testing.T) {
	hub := NewHub()
	hub.AddClient(nil, ConnInfo{Viewer: "dave"})

	private := models.Message{From: "ana", To: "carol", Type: models.KindPrivate}
	if policy.Visible(private, "dave") {
		t.Fatalf("fixture must be invisible to dave")
	}

	// dave's connection is nil; a write to it would panic, so reaching the
	// end proves the hub filtered it out.
	hub.BroadcastMessage(private)
}
