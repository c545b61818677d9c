package permissions

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-parish/pkg/interfaces"
)

type Action string

const (
	ActionRead    Action = "read"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionPublish Action = "publish"
	ActionExport  Action = "export"
)

// Roles stored in user_roles.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Roles lists the grantable roles, strongest first.
var Roles = []string{RoleAdmin, RoleEditor}

const (
	ResourceArticles    = "articles"
	ResourcePages       = "pages"
	ResourceTeam        = "team"
	ResourceSchedules   = "schedules"
	ResourceFAQ         = "faq"
	ResourceAudio       = "audio"
	ResourceFooterLinks = "footer_links"
	ResourceSocialLinks = "social_links"
	ResourceMedia       = "media"
	ResourceRichText    = "richtext"
	ResourceMessages    = "messages"
	ResourceSubscribers = "subscribers"
	ResourceRoles       = "roles"
	ResourceActivity    = "activity"
)

// ContentResources are the resources editors manage.
var ContentResources = []string{
	ResourceArticles,
	ResourcePages,
	ResourceTeam,
	ResourceSchedules,
	ResourceFAQ,
	ResourceAudio,
	ResourceFooterLinks,
	ResourceSocialLinks,
	ResourceMedia,
	ResourceRichText,
}

var (
	ErrPermissionDenied = errors.New("permissions: denied")
	ErrUnauthenticated  = errors.New("permissions: no principal")
)

type Error struct {
	Permission string
}

func (e Error) Error() string {
	if strings.TrimSpace(e.Permission) == "" {
		return "permission denied"
	}
	return "permission denied: " + e.Permission
}

func (e Error) Unwrap() error {
	return ErrPermissionDenied
}

// PermissionSet captures common CRUD permission tokens.
type PermissionSet struct {
	Read    string `json:"read,omitempty"`
	Create  string `json:"create,omitempty"`
	Update  string `json:"update,omitempty"`
	Delete  string `json:"delete,omitempty"`
	Publish string `json:"publish,omitempty"`
}

// ResourcePermissions creates a permission set for a resource.
func ResourcePermissions(resource string, includePublish bool) PermissionSet {
	normalized := normalizeToken(resource)
	perms := PermissionSet{
		Read:   Join(normalized, ActionRead),
		Create: Join(normalized, ActionCreate),
		Update: Join(normalized, ActionUpdate),
		Delete: Join(normalized, ActionDelete),
	}
	if includePublish {
		perms.Publish = Join(normalized, ActionPublish)
	}
	return perms
}

// Join builds a permission token from resource and action.
func Join(resource string, action Action) string {
	res := normalizeToken(resource)
	act := normalizeToken(string(action))
	if res == "" || act == "" {
		return ""
	}
	return res + ":" + act
}

// List returns the non-empty permissions in the set.
func (p PermissionSet) List() []string {
	out := make([]string, 0, 5)
	for _, perm := range []string{p.Read, p.Create, p.Update, p.Delete, p.Publish} {
		if perm != "" {
			out = append(out, perm)
		}
	}
	return out
}

type Checker interface {
	Allowed(permission string) bool
}

type CheckerFunc func(permission string) bool

func (fn CheckerFunc) Allowed(permission string) bool {
	return fn(permission)
}

type Set map[string]struct{}

func NewSet(perms ...string) Set {
	set := Set{}
	for _, perm := range perms {
		normalized := normalizePermission(perm)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return set
}

func (s Set) Allowed(permission string) bool {
	if len(s) == 0 {
		return false
	}
	normalized := normalizePermission(permission)
	if normalized == "" {
		return false
	}
	if _, ok := s[normalized]; ok {
		return true
	}
	resource, _ := splitPermission(normalized)
	if resource != "" {
		if _, ok := s[resource+":*"]; ok {
			return true
		}
	}
	_, ok := s["*"]
	return ok
}

// ForRole returns the permissions granted by a role. Unknown roles get none.
func ForRole(role string) Set {
	switch normalizeToken(role) {
	case RoleAdmin:
		return NewSet("*")
	case RoleEditor:
		perms := make([]string, 0, len(ContentResources))
		for _, resource := range ContentResources {
			perms = append(perms, resource+":*")
		}
		return NewSet(perms...)
	default:
		return Set{}
	}
}

// StrongestRole picks admin over editor. It returns "" when roles holds
// neither.
func StrongestRole(roles []string) string {
	for _, candidate := range Roles {
		for _, role := range roles {
			if normalizeToken(role) == candidate {
				return candidate
			}
		}
	}
	return ""
}

type contextKey string

const (
	checkerKey   contextKey = "parish.permissions.checker"
	principalKey contextKey = "parish.permissions.principal"
)

// WithChecker stores a permission checker on the context.
func WithChecker(ctx context.Context, checker Checker) context.Context {
	if ctx == nil || checker == nil {
		return ctx
	}
	return context.WithValue(ctx, checkerKey, checker)
}

// WithPrincipal stores the request principal and the checker derived from its
// role.
func WithPrincipal(ctx context.Context, principal interfaces.Principal) context.Context {
	if ctx == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, principalKey, principal)
	return WithChecker(ctx, ForRole(principal.Role))
}

// PrincipalFromContext returns the principal set by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (interfaces.Principal, bool) {
	if ctx == nil {
		return interfaces.Principal{}, false
	}
	principal, ok := ctx.Value(principalKey).(interfaces.Principal)
	return principal, ok
}

// CheckerFromContext returns the configured permission checker if available.
func CheckerFromContext(ctx context.Context) Checker {
	if ctx == nil {
		return nil
	}
	checker, _ := ctx.Value(checkerKey).(Checker)
	return checker
}

// Allowed reports whether the context grants permission. A context without
// a checker grants nothing.
func Allowed(ctx context.Context, permission string) bool {
	return Require(ctx, permission) == nil
}

// Require returns ErrUnauthenticated without a checker and an Error when the
// checker refuses permission.
func Require(ctx context.Context, permission string) error {
	normalized := normalizePermission(permission)
	checker := CheckerFromContext(ctx)
	if checker == nil {
		return ErrUnauthenticated
	}
	if normalized != "" && checker.Allowed(normalized) {
		return nil
	}
	return Error{Permission: normalized}
}

func splitPermission(permission string) (string, Action) {
	normalized := normalizePermission(permission)
	if normalized == "" {
		return "", ""
	}
	parts := strings.SplitN(normalized, ":", 2)
	resource := normalizeToken(parts[0])
	if len(parts) == 1 {
		return resource, ""
	}
	return resource, Action(normalizeToken(parts[1]))
}

func normalizePermission(permission string) string {
	return strings.ToLower(strings.TrimSpace(permission))
}

func normalizeToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
