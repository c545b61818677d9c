package schedules

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-parish/internal/i18n"
	"github.com/goliatone/go-parish/internal/records"
	rules "github.com/goliatone/go-parish/internal/validation"
)

const Resource = "schedules"

var (
	weeklyOrder   = []string{"?TableAlias.day_of_week ASC", "?TableAlias.start_time ASC", "?TableAlias.sort_order ASC"}
	upcomingOrder = []string{"?TableAlias.event_date ASC", "?TableAlias.start_time ASC", "?TableAlias.sort_order ASC"}
)

func weeklyLess(a, b *Schedule) bool {
	if *a.DayOfWeek != *b.DayOfWeek {
		return *a.DayOfWeek < *b.DayOfWeek
	}
	if a.StartTime != b.StartTime {
		return a.StartTime < b.StartTime
	}
	return a.SortOrder < b.SortOrder
}

func upcomingLess(a, b *Schedule) bool {
	if a.date() != b.date() {
		return a.date() < b.date()
	}
	if a.StartTime != b.StartTime {
		return a.StartTime < b.StartTime
	}
	return a.SortOrder < b.SortOrder
}

func NewBunStore(db *bun.DB, caching records.Caching) *records.BunStore[*Schedule] {
	return records.NewBunStore(db, records.BunConfig[*Schedule]{
		Resource:  Resource,
		NewRecord: func() *Schedule { return &Schedule{} },
		Caching:   caching,
	})
}

func NewMemoryStore() *records.MemoryStore[*Schedule] {
	return records.NewMemoryStore(Resource, clone)
}

type Service struct {
	*records.Service[*Schedule]
}

func NewService(store records.Store[*Schedule], opts ...records.ServiceOption) *Service {
	return &Service{
		Service: records.NewService(store, records.Descriptor[*Schedule]{
			Resource: Resource,
			Prepare:  prepare,
			Validate: validate,
		}, opts...),
	}
}

func prepare(s *Schedule, _ time.Time) {
	s.Kind = strings.ToLower(strings.TrimSpace(s.Kind))
	s.StartTime = strings.TrimSpace(s.StartTime)
	s.Title = strings.TrimSpace(s.Title)
	s.Location = strings.TrimSpace(s.Location)
	if s.EventDate != nil {
		d := strings.TrimSpace(*s.EventDate)
		if d == "" {
			s.EventDate = nil
		} else {
			s.EventDate = &d
		}
	}
	s.Language = i18n.Normalize(s.Language)
	if s.Language == "" {
		s.Language = i18n.French
	}
}

func validate(s *Schedule) error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Kind, validation.Required, validation.In(toAny(Kinds)...)),
		validation.Field(&s.StartTime, validation.Required, rules.TimeOfDay),
		validation.Field(&s.DayOfWeek,
			validation.When(s.EventDate == nil, validation.NotNil.Error("either day_of_week or event_date is required")),
			validation.Min(0), validation.Max(6)),
		validation.Field(&s.EventDate, rules.Date),
		validation.Field(&s.Language, validation.In(i18n.French, i18n.Polish)),
	)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// Public returns active weekly schedules grouped by weekday and active events
// dated today or later, relative to now.
func (s *Service) Public(ctx context.Context, locale string, now time.Time) (Listing, error) {
	weekly, _, err := s.List(ctx, records.ListOptions[*Schedule]{
		OnlyVisible: true,
		Filter: records.Filter[*Schedule]{
			Query: func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Where("?TableAlias.day_of_week IS NOT NULL")
			},
			Match: (*Schedule).Weekly,
		},
		Order: records.Order[*Schedule]{SQL: weeklyOrder, Less: weeklyLess},
	})
	if err != nil {
		return Listing{}, err
	}

	today := now.Format(rules.DateLayout)
	upcoming, _, err := s.List(ctx, records.ListOptions[*Schedule]{
		OnlyVisible: true,
		Filter: records.Filter[*Schedule]{
			Query: func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Where("?TableAlias.event_date IS NOT NULL").Where("?TableAlias.event_date >= ?", today)
			},
			Match: func(s *Schedule) bool {
				return s.EventDate != nil && *s.EventDate >= today
			},
		},
		Order: records.Order[*Schedule]{SQL: upcomingOrder, Less: upcomingLess},
	})
	if err != nil {
		return Listing{}, err
	}

	listing := Listing{Weekly: []Day{}, Upcoming: make([]View, 0, len(upcoming))}
	for _, entry := range weekly {
		if entry.DayOfWeek == nil {
			continue
		}
		day := *entry.DayOfWeek
		if n := len(listing.Weekly); n == 0 || listing.Weekly[n-1].DayOfWeek != day {
			listing.Weekly = append(listing.Weekly, Day{DayOfWeek: day})
		}
		last := &listing.Weekly[len(listing.Weekly)-1]
		last.Entries = append(last.Entries, entry.Localize(locale))
	}
	for _, entry := range upcoming {
		listing.Upcoming = append(listing.Upcoming, entry.Localize(locale))
	}
	return listing, nil
}

// Today returns the weekly entries of now's weekday followed by events dated
// today.
func (s *Service) Today(ctx context.Context, locale string, now time.Time) ([]View, error) {
	listing, err := s.Public(ctx, locale, now)
	if err != nil {
		return nil, err
	}
	weekday := int(now.Weekday())
	today := now.Format(rules.DateLayout)
	out := []View{}
	for _, day := range listing.Weekly {
		if day.DayOfWeek == weekday {
			out = append(out, day.Entries...)
		}
	}
	for _, event := range listing.Upcoming {
		if event.EventDate != today {
			break
		}
		out = append(out, event)
	}
	return out, nil
}
