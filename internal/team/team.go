package team

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-parish/internal/i18n"
	"github.com/goliatone/go-parish/internal/records"
	"github.com/goliatone/go-parish/internal/richtext"
	rules "github.com/goliatone/go-parish/internal/validation"
)

const Resource = "team"

// Member categories.
const (
	CategoryClergy    = "clergy"
	CategoryStaff     = "staff"
	CategoryCouncil   = "council"
	CategoryVolunteer = "volunteer"
)

// Categories lists the member categories in display order.
var Categories = []string{CategoryClergy, CategoryStaff, CategoryCouncil, CategoryVolunteer}

// Member is a person shown on the team page.
type Member struct {
	bun.BaseModel `bun:"table:team_members,alias:tm"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Role      string    `bun:"role" json:"role"`
	RoleFR    string    `bun:"role_fr" json:"role_fr"`
	RolePL    string    `bun:"role_pl" json:"role_pl"`
	Bio       string    `bun:"bio" json:"bio"`
	BioFR     string    `bun:"bio_fr" json:"bio_fr"`
	BioPL     string    `bun:"bio_pl" json:"bio_pl"`
	PhotoURL  string    `bun:"photo_url" json:"photo_url"`
	Email     string    `bun:"email" json:"email"`
	Phone     string    `bun:"phone" json:"phone"`
	Category  string    `bun:"category" json:"category"`
	Active    bool      `bun:"active" json:"active"`
	SortOrder int       `bun:"sort_order" json:"sort_order"`
	CreatedAt time.Time `bun:"created_at,nullzero" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}

func (m *Member) RecordID() uuid.UUID { return m.ID }

func (m *Member) SetRecordID(id uuid.UUID) { m.ID = id }

func (m *Member) CreatedTime() time.Time { return m.CreatedAt }

func (m *Member) Stamp(created, updated time.Time) {
	m.CreatedAt = created
	m.UpdatedAt = updated
}

func (m *Member) Visible() bool { return m.Active }

func (m *Member) SetVisible(v bool) { m.Active = v }

func (m *Member) VisibilityColumn() string { return "active" }

func (m *Member) SortKey() int { return m.SortOrder }

func clone(m *Member) *Member {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// View is the public shape of a member.
type View struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	Bio      string    `json:"bio,omitempty"`
	PhotoURL string    `json:"photo_url,omitempty"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Category string    `json:"category"`
}

func (m *Member) Localize(locale string) View {
	return View{
		ID:       m.ID,
		Name:     m.Name,
		Role:     i18n.Pick(locale, m.Role, m.RoleFR, m.RolePL),
		Bio:      i18n.Pick(locale, m.Bio, m.BioFR, m.BioPL),
		PhotoURL: m.PhotoURL,
		Email:    m.Email,
		Phone:    m.Phone,
		Category: m.Category,
	}
}

// Group is one category of the public team listing.
type Group struct {
	Category string `json:"category"`
	Members  []View `json:"members"`
}

func NewBunStore(db *bun.DB, caching records.Caching) *records.BunStore[*Member] {
	return records.NewBunStore(db, records.BunConfig[*Member]{
		Resource:  Resource,
		NewRecord: func() *Member { return &Member{} },
		Caching:   caching,
	})
}

func NewMemoryStore() *records.MemoryStore[*Member] {
	return records.NewMemoryStore(Resource, clone)
}

type Service struct {
	*records.Service[*Member]
}

func NewService(store records.Store[*Member], sanitizer *richtext.Sanitizer, opts ...records.ServiceOption) *Service {
	if sanitizer == nil {
		sanitizer = richtext.NewSanitizer()
	}
	return &Service{
		Service: records.NewService(store, records.Descriptor[*Member]{
			Resource: Resource,
			Prepare: func(m *Member, _ time.Time) {
				m.Name = strings.TrimSpace(m.Name)
				m.Email = strings.ToLower(strings.TrimSpace(m.Email))
				m.Phone = strings.TrimSpace(m.Phone)
				m.Category = strings.ToLower(strings.TrimSpace(m.Category))
				if m.Category == "" {
					m.Category = CategoryStaff
				}
				m.Bio = sanitizer.Sanitize(m.Bio)
				m.BioFR = sanitizer.Sanitize(m.BioFR)
				m.BioPL = sanitizer.Sanitize(m.BioPL)
			},
			Validate: validate,
		}, opts...),
	}
}

func validate(m *Member) error {
	categories := make([]any, 0, len(Categories))
	for _, c := range Categories {
		categories = append(categories, c)
	}
	return validation.ValidateStruct(m,
		validation.Field(&m.Name, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&m.Email, rules.Email),
		validation.Field(&m.Category, validation.In(categories...)),
	)
}

// Public returns active members grouped by category. Empty categories are
// omitted.
func (s *Service) Public(ctx context.Context, locale string) ([]Group, error) {
	rows, _, err := s.List(ctx, records.ListOptions[*Member]{OnlyVisible: true})
	if err != nil {
		return nil, err
	}
	byCategory := map[string][]View{}
	for _, m := range rows {
		byCategory[m.Category] = append(byCategory[m.Category], m.Localize(locale))
	}
	groups := make([]Group, 0, len(byCategory))
	for _, c := range Categories {
		if members := byCategory[c]; len(members) > 0 {
			groups = append(groups, Group{Category: c, Members: members})
		}
	}
	return groups, nil
}
