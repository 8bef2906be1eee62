package models

import "time"

// Account providers.
const (
	ProviderLocal    = "local"
	ProviderKeycloak = "keycloak"
)

// User is a back-office account. Local accounts carry a bcrypt hash; Keycloak
// accounts are upserted from token claims and have none.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Sub          string    `bson:"sub" json:"sub"` // OIDC subject, or local:<email>
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name" json:"name"`
	Provider     string    `bson:"provider,omitempty" json:"provider,omitempty"`
	PasswordHash string    `bson:"passwordHash,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// LocalSub is the subject assigned to a password account.
func LocalSub(email string) string { return ProviderLocal + ":" + email }
