package models

import "time"

// Participant is a live presence record. Existence of the record is what
// "logged in" means; there is no credential behind it.
type Participant struct {
	Name       string    `db:"name" json:"name"`
	LastStatus time.Time `db:"last_status" json:"lastStatus"`
}
