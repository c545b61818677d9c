package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestRecordUUIDIsStable(t *testing.T) {
	a := RecordUUID("faq", "horaires-bureau")
	b := RecordUUID(" FAQ ", "Horaires-Bureau")
	if a == uuid.Nil || a != b {
		t.Fatalf("expected stable non-nil id, got %s and %s", a, b)
	}
	if RecordUUID("schedules", "horaires-bureau") == a {
		t.Fatal("expected resource to be part of the key")
	}
	if UUID("  ") != uuid.Nil {
		t.Fatal("expected blank key to map to nil")
	}
}

func TestRoleUUID(t *testing.T) {
	user := uuid.New()
	if RoleUUID(user, "admin") != RoleUUID(user, "ADMIN") {
		t.Fatal("expected role id to ignore case")
	}
	if RoleUUID(user, "admin") == RoleUUID(user, "editor") {
		t.Fatal("expected distinct ids per role")
	}
}
