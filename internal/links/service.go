package links

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-parish/internal/records"
	rules "github.com/goliatone/go-parish/internal/validation"
)

const (
	FooterResource = "footer_links"
	SocialResource = "social_links"
)

// Stores groups the two link tables.
type Stores struct {
	Footer records.Store[*FooterLink]
	Social records.Store[*SocialLink]
}

func NewBunStores(db *bun.DB, caching records.Caching) Stores {
	return Stores{
		Footer: records.NewBunStore(db, records.BunConfig[*FooterLink]{
			Resource:  FooterResource,
			NewRecord: func() *FooterLink { return &FooterLink{} },
			Caching:   caching,
		}),
		Social: records.NewBunStore(db, records.BunConfig[*SocialLink]{
			Resource:  SocialResource,
			NewRecord: func() *SocialLink { return &SocialLink{} },
			Caching:   caching,
		}),
	}
}

func NewMemoryStores() Stores {
	return Stores{
		Footer: records.NewMemoryStore(FooterResource, cloneFooter),
		Social: records.NewMemoryStore(SocialResource, cloneSocial),
	}
}

// Service exposes the admin services of both link kinds and the public footer.
type Service struct {
	Footer *records.Service[*FooterLink]
	Social *records.Service[*SocialLink]
}

func NewService(stores Stores, opts ...records.ServiceOption) *Service {
	return &Service{
		Footer: records.NewService(stores.Footer, records.Descriptor[*FooterLink]{
			Resource: FooterResource,
			Prepare: func(l *FooterLink, _ time.Time) {
				l.Label = strings.TrimSpace(l.Label)
				l.LabelFR = strings.TrimSpace(l.LabelFR)
				l.LabelPL = strings.TrimSpace(l.LabelPL)
				l.URL = strings.TrimSpace(l.URL)
				l.Category = strings.TrimSpace(l.Category)
			},
			Validate: func(l *FooterLink) error {
				return validation.ValidateStruct(l,
					validation.Field(&l.Label, validation.Required),
					validation.Field(&l.URL, validation.Required, rules.LinkURL),
				)
			},
		}, opts...),
		Social: records.NewService(stores.Social, records.Descriptor[*SocialLink]{
			Resource: SocialResource,
			Prepare: func(l *SocialLink, _ time.Time) {
				l.Platform = strings.ToLower(strings.TrimSpace(l.Platform))
				l.URL = strings.TrimSpace(l.URL)
				l.Icon = strings.TrimSpace(l.Icon)
				if l.Icon == "" {
					l.Icon = l.Platform
				}
			},
			Validate: func(l *SocialLink) error {
				return validation.ValidateStruct(l,
					validation.Field(&l.Platform, validation.Required),
					validation.Field(&l.URL, validation.Required, rules.LinkURL),
				)
			},
		}, opts...),
	}
}

// Public returns the active footer and social links.
func (s *Service) Public(ctx context.Context, locale string) (Footer, error) {
	footer, _, err := s.Footer.List(ctx, records.ListOptions[*FooterLink]{OnlyVisible: true})
	if err != nil {
		return Footer{}, err
	}
	social, _, err := s.Social.List(ctx, records.ListOptions[*SocialLink]{OnlyVisible: true})
	if err != nil {
		return Footer{}, err
	}
	out := Footer{
		Links:  make([]FooterView, 0, len(footer)),
		Social: make([]SocialView, 0, len(social)),
	}
	for _, l := range footer {
		out.Links = append(out.Links, l.Localize(locale))
	}
	for _, l := range social {
		out.Social = append(out.Social, l.View())
	}
	return out, nil
}
