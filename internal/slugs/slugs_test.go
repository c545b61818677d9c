package slugs

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Événement d'Été!":               "evenement-d-ete",
		"Msza Święta w Łodzi":            "msza-swieta-w-lodzi",
		"  Horaires des messes  ":        "horaires-des-messes",
		"Pèlerinage -- Częstochowa 2025": "pelerinage-czestochowa-2025",
		"!!!":                            "",
		"Cœur de Jésus":                  "coeur-de-jesus",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlugifyTruncatesOnHyphen(t *testing.T) {
	title := strings.Repeat("paroisse ", 20)
	got := Slugify(title)
	if len(got) > MaxLength {
		t.Fatalf("slug too long: %d", len(got))
	}
	if strings.HasSuffix(got, "-") || strings.HasSuffix(got, "paroiss") {
		t.Fatalf("slug should end on a whole word, got %q", got)
	}
}

func TestValid(t *testing.T) {
	for _, ok := range []string{"faq", "messe-de-noel", "rentree-2025"} {
		if !Valid(ok) {
			t.Fatalf("expected %q to be valid", ok)
		}
	}
	for _, bad := range []string{"", "Messe", "messe--noel", "-messe", "messe_noel", "été"} {
		if Valid(bad) {
			t.Fatalf("expected %q to be invalid", bad)
		}
	}
}

func TestEnsure(t *testing.T) {
	if got := Ensure("", "Fête de la Toussaint"); got != "fete-de-la-toussaint" {
		t.Fatalf("expected slug from fallback, got %q", got)
	}
	if got := Ensure("Ma Page", "ignored"); got != "ma-page" {
		t.Fatalf("expected provided slug to be normalized, got %q", got)
	}
	if got := Ensure("deja-ok", "ignored"); got != "deja-ok" {
		t.Fatalf("expected valid slug untouched, got %q", got)
	}
}
