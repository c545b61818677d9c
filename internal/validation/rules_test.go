package validation

import (
	"errors"
	"testing"
)

func TestRules(t *testing.T) {
	date := "2025-12-24"
	badDate := "24/12/2025"
	cases := []struct {
		name  string
		rule  func(any) error
		value any
		ok    bool
	}{
		{"empty slug passes", slugRule, "", true},
		{"valid slug", slugRule, "messe-de-noel", true},
		{"uppercase slug", slugRule, "Messe", false},
		{"email", emailRule, "jan@parafia.fr", true},
		{"email without tld", emailRule, "jan@parafia", false},
		{"email with name", emailRule, "Jan <jan@parafia.fr>", false},
		{"https url", urlRule("http", "https"), "https://example.org/x", true},
		{"url without host", urlRule("http", "https"), "https:///x", false},
		{"javascript url", urlRule("http", "https", "mailto", "tel"), "javascript:alert(1)", false},
		{"mailto link", urlRule("http", "https", "mailto", "tel"), "mailto:secretariat@paroisse.fr", true},
		{"tel link", urlRule("http", "https", "mailto", "tel"), "tel:+33123456789", true},
		{"time", timeOfDayRule, "09:30", true},
		{"time out of range", timeOfDayRule, "25:00", false},
		{"time short", timeOfDayRule, "9:30", false},
		{"date pointer", dateRule, &date, true},
		{"bad date pointer", dateRule, &badDate, false},
		{"nil date pointer", dateRule, (*string)(nil), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rule(tc.value)
			if tc.ok && err != nil {
				t.Fatalf("expected %v to pass, got %v", tc.value, err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected %v to fail", tc.value)
			}
		})
	}
}

func TestSchemaValidate(t *testing.T) {
	schema, err := CompileSchema("item.json", []byte(`{
		"type": "object",
		"required": ["name"],
		"properties": {"name": {"type": "string", "minLength": 1}}
	}`))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := schema.Validate(map[string]any{"name": "ok"}); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}
	err = schema.Validate(map[string]any{"name": ""})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
	issues := Issues(err)
	if len(issues) != 1 || issues[0].Location != "/name" {
		t.Fatalf("unexpected issues %+v", issues)
	}

	if _, err := CompileSchema("", []byte(`{"type": 12}`)); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected invalid schema error, got %v", err)
	}
}
