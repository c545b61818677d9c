package validation

import (
	"errors"
	"net/mail"
	"net/url"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-parish/internal/slugs"
)

// Shared ozzo rules for record validation. Empty values pass so they compose
// with ozzo.Required.
var (
	Slug      = ozzo.By(slugRule)
	Email     = ozzo.By(emailRule)
	HTTPURL   = ozzo.By(urlRule("http", "https"))
	LinkURL   = ozzo.By(urlRule("http", "https", "mailto", "tel"))
	TimeOfDay = ozzo.By(timeOfDayRule)
	Date      = ozzo.By(dateRule)
)

// DateLayout is the storage format of calendar dates.
const DateLayout = "2006-01-02"

func slugRule(value any) error {
	s, _ := value.(string)
	if s == "" || slugs.Valid(s) {
		return nil
	}
	return errors.New("must contain only lowercase letters, digits and hyphens")
}

func emailRule(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || !strings.Contains(s[strings.LastIndexByte(s, '@')+1:], ".") {
		return errors.New("must be a valid email address")
	}
	return nil
}

func urlRule(schemes ...string) func(any) error {
	return func(value any) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		u, err := url.Parse(s)
		if err != nil {
			return errors.New("must be a valid URL")
		}
		scheme := strings.ToLower(u.Scheme)
		for _, allowed := range schemes {
			if scheme != allowed {
				continue
			}
			switch scheme {
			case "http", "https":
				if u.Host == "" {
					return errors.New("must be a valid URL")
				}
			default:
				if u.Opaque == "" && u.Path == "" {
					return errors.New("must be a valid URL")
				}
			}
			return nil
		}
		return errors.New("must use one of: " + strings.Join(schemes, ", "))
	}
}

func timeOfDayRule(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if len(s) != 5 {
		return errors.New("must be a time in HH:MM format")
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return errors.New("must be a time in HH:MM format")
	}
	return nil
}

func dateRule(value any) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v != nil {
			s = *v
		}
	}
	if s == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return errors.New("must be a date in YYYY-MM-DD format")
	}
	return nil
}
