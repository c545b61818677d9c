package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-parish/internal/faq"
	"github.com/goliatone/go-parish/internal/identity"
	"github.com/goliatone/go-parish/internal/links"
	"github.com/goliatone/go-parish/internal/logging"
	"github.com/goliatone/go-parish/internal/pages"
	"github.com/goliatone/go-parish/internal/schedules"
	"github.com/goliatone/go-parish/internal/validation"
	"github.com/goliatone/go-parish/pkg/interfaces"
)

var (
	//go:embed data/fixture.json
	defaultFixture []byte
	//go:embed data/fixture.schema.json
	fixtureSchema []byte
)

// Fixture is the seed document. Every item carries a key from which its id
// is derived, so running the seed twice updates rows in place.
type Fixture struct {
	Schedules   []ScheduleSeed `json:"schedules"`
	FAQ         []FAQSeed      `json:"faq"`
	FooterLinks []FooterSeed   `json:"footer_links"`
	SocialLinks []SocialSeed   `json:"social_links"`
	Pages       []PageSeed     `json:"pages"`
}

type ScheduleSeed struct {
	Key string `json:"key"`
	schedules.Schedule
}

type FAQSeed struct {
	Key string `json:"key"`
	faq.Entry
}

type FooterSeed struct {
	Key string `json:"key"`
	links.FooterLink
}

type SocialSeed struct {
	Key string `json:"key"`
	links.SocialLink
}

type PageSeed struct {
	Key string `json:"key"`
	pages.Page
}

// Result counts the rows written per resource.
type Result struct {
	Schedules   int `json:"schedules"`
	FAQ         int `json:"faq"`
	FooterLinks int `json:"footer_links"`
	SocialLinks int `json:"social_links"`
	Pages       int `json:"pages"`
}

// Services are the writers the seed goes through, so every row passes the
// same preparation and validation as an admin save.
type Services struct {
	Schedules *schedules.Service
	FAQ       *faq.Service
	Links     *links.Service
	Pages     *pages.Service
}

// Default returns the embedded fixture.
func Default() (Fixture, error) {
	return Parse(defaultFixture)
}

// Parse validates raw against the fixture schema and decodes it.
func Parse(raw []byte) (Fixture, error) {
	schema, err := validation.CompileSchema("fixture.schema.json", fixtureSchema)
	if err != nil {
		return Fixture{}, err
	}
	var document any
	if err := json.Unmarshal(raw, &document); err != nil {
		return Fixture{}, fmt.Errorf("seed: decode fixture: %w", err)
	}
	if err := schema.Validate(document); err != nil {
		return Fixture{}, fmt.Errorf("seed: %w", err)
	}

	var fx Fixture
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&fx); err != nil {
		return Fixture{}, fmt.Errorf("seed: decode fixture: %w", err)
	}
	return fx, nil
}

// Run upserts every fixture item.
func Run(ctx context.Context, svcs Services, fx Fixture, logger interfaces.Logger) (Result, error) {
	logger = logging.Ensure(logger)
	var res Result

	for i := range fx.Schedules {
		item := &fx.Schedules[i]
		item.ID = identity.RecordUUID(schedules.Resource, item.Key)
		if _, err := svcs.Schedules.Upsert(ctx, &item.Schedule); err != nil {
			return res, fmt.Errorf("seed schedule %s: %w", item.Key, err)
		}
		res.Schedules++
	}
	for i := range fx.FAQ {
		item := &fx.FAQ[i]
		item.ID = identity.RecordUUID(faq.Resource, item.Key)
		if _, err := svcs.FAQ.Upsert(ctx, &item.Entry); err != nil {
			return res, fmt.Errorf("seed faq %s: %w", item.Key, err)
		}
		res.FAQ++
	}
	for i := range fx.FooterLinks {
		item := &fx.FooterLinks[i]
		item.ID = identity.RecordUUID(links.FooterResource, item.Key)
		if _, err := svcs.Links.Footer.Upsert(ctx, &item.FooterLink); err != nil {
			return res, fmt.Errorf("seed footer link %s: %w", item.Key, err)
		}
		res.FooterLinks++
	}
	for i := range fx.SocialLinks {
		item := &fx.SocialLinks[i]
		item.ID = identity.RecordUUID(links.SocialResource, item.Key)
		if _, err := svcs.Links.Social.Upsert(ctx, &item.SocialLink); err != nil {
			return res, fmt.Errorf("seed social link %s: %w", item.Key, err)
		}
		res.SocialLinks++
	}
	for i := range fx.Pages {
		item := &fx.Pages[i]
		item.ID = identity.RecordUUID(pages.Resource, item.Key)
		if _, err := svcs.Pages.Upsert(ctx, &item.Page); err != nil {
			return res, fmt.Errorf("seed page %s: %w", item.Key, err)
		}
		res.Pages++
	}

	logger.Info("seed.completed",
		"schedules", res.Schedules,
		"faq", res.FAQ,
		"footer_links", res.FooterLinks,
		"social_links", res.SocialLinks,
		"pages", res.Pages,
	)
	return res, nil
}
