package team

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-parish/internal/records"
)

func TestSaveRequiresName(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, nil)
	cases := []*Member{
		{Role: "Curé"},
		{Name: "Père Jan", Email: "not-an-email"},
		{Name: "Père Jan", Category: "choir"},
	}
	for _, m := range cases {
		if _, err := svc.Save(context.Background(), m); !errors.Is(err, records.ErrValidation) {
			t.Fatalf("expected validation error for %+v, got %v", m, err)
		}
	}
	if store.Len() != 0 {
		t.Fatalf("expected no rows, got %d", store.Len())
	}
}

func TestPublicGroupsActiveMembers(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore(), nil)
	seed := []*Member{
		{Name: "Anna", Role: "Secrétaire", RolePL: "Sekretarka", Category: "staff", Active: true, SortOrder: 2},
		{Name: "Père Jan", Role: "Curé", RoleFR: "Curé de la paroisse", Category: "clergy", Active: true},
		{Name: "Inactif", Category: "council", Active: false},
		{Name: "Marek", Role: "Organiste", Active: true, SortOrder: 1},
	}
	for _, m := range seed {
		if _, err := svc.Save(ctx, m); err != nil {
			t.Fatalf("save %s: %v", m.Name, err)
		}
	}

	groups, err := svc.Public(ctx, "pl")
	if err != nil {
		t.Fatalf("public: %v", err)
	}
	if len(groups) != 2 || groups[0].Category != CategoryClergy || groups[1].Category != CategoryStaff {
		t.Fatalf("unexpected groups %+v", groups)
	}
	if groups[0].Members[0].Role != "Curé de la paroisse" {
		t.Fatalf("expected french fallback, got %q", groups[0].Members[0].Role)
	}
	staff := groups[1].Members
	if len(staff) != 2 || staff[0].Name != "Marek" || staff[1].Role != "Sekretarka" {
		t.Fatalf("unexpected staff %+v", staff)
	}
}
