package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"batepapo-service/internal/models"
)

func TestVisiblePrivateMessage(t *testing.T) {
	private := models.Message{From: "ana", To: "carol", Type: models.KindPrivate}

	assert.True(t, Visible(private, "ana"), "sender sees the private message")
	assert.True(t, Visible(private, "carol"), "recipient sees the private message")
	assert.False(t, Visible(private, "dave"), "third parties never see it")
	assert.False(t, Visible(private, ""), "anonymous viewer never sees it")
}

func TestVisiblePrivateBroadcast(t *testing.T) {
	// A private message addressed to the broadcast recipient is visible to
	// everyone, matching the original filter.
	private := models.Message{From: "ana", To: models.Broadcast, Type: models.KindPrivate}

	assert.True(t, Visible(private, "dave"))
}

func TestVisiblePublicKinds(t *testing.T) {
	for _, kind := range []string{models.KindMessage, models.KindStatus} {
		msg := models.Message{From: "ana", To: "carol", Type: kind}
		assert.True(t, Visible(msg, "dave"), "kind %s is public", kind)
	}
}

func TestCanMutate(t *testing.T) {
	msg := models.Message{From: "ana", To: "carol", Type: models.KindPrivate}

	assert.True(t, CanMutate(msg, "ana"))
	assert.False(t, CanMutate(msg, "carol"), "recipient may not mutate")
	assert.False(t, CanMutate(msg, "dave"))
}

func TestExpired(t *testing.T) {
	now := time.Date(2023, 5, 10, 12, 0, 0, 0, time.UTC)
	ttl := 10 * time.Second

	fresh := models.Participant{Name: "ana", LastStatus: now.Add(-5 * time.Second)}
	boundary := models.Participant{Name: "bob", LastStatus: now.Add(-ttl)}
	stale := models.Participant{Name: "carol", LastStatus: now.Add(-time.Minute)}

	assert.False(t, Expired(fresh, now, ttl))
	assert.True(t, Expired(boundary, now, ttl), "exactly at the threshold counts as expired")
	assert.True(t, Expired(stale, now, ttl))
}
