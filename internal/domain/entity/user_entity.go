package entity

import (
	"time"
)

// UserRecord is the profile document stored at <email>/userInfo.json.
// The email is the primary identity key; it is stored exactly as the
// caller supplied it, with no normalization. A record exists for an
// email iff the corresponding object exists in the blob store — there
// is no separate index.
type UserRecord struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	GoogleID  string    `json:"googleId"`
	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin"`
}
