package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// RecordUUID is the id of a seeded row, keyed by resource and a natural key
// such as a slug.
func RecordUUID(resource, key string) uuid.UUID {
	return UUID("go-parish:" + strings.ToLower(strings.TrimSpace(resource)) + ":" + strings.ToLower(strings.TrimSpace(key)))
}

// RoleUUID is the id of a user_roles row.
func RoleUUID(userID uuid.UUID, role string) uuid.UUID {
	return UUID("go-parish:user_role:" + userID.String() + ":" + strings.ToLower(strings.TrimSpace(role)))
}
