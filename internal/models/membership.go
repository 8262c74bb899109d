package models

import (
	"time"
)

// Membership associates a user with a role inside an organization. The role's
// permission slugs are denormalized onto the document.
type Membership struct {
	UserID      string    `firestore:"userId" json:"userId"`
	RoleSlug    string    `firestore:"roleSlug" json:"roleSlug"` // "admin" bypasses permission checks
	Permissions []string  `firestore:"permissions" json:"permissions"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt" json:"updatedAt"`
}
