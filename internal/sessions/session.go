package sessions

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Session is a refresh session for an admin login. Only the SHA-256 of the refresh
// token is stored, so a leaked sessions collection cannot be replayed.
type Session struct {
	TokenHash string    `bson:"_id" json:"tokenHash"`
	Sub       string    `bson:"sub" json:"sub"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// HashToken is the storage key for a refresh token.
func HashToken(refresh string) string {
	sum := sha256.Sum256([]byte(refresh))
	return hex.EncodeToString(sum[:])
}
