package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-parish/internal/auth"
	"github.com/goliatone/go-parish/internal/markdown"
	"github.com/goliatone/go-parish/internal/media"
	"github.com/goliatone/go-parish/internal/permissions"
	"github.com/goliatone/go-parish/internal/records"
	"github.com/goliatone/go-parish/internal/richtext"
	rules "github.com/goliatone/go-parish/internal/validation"
)

const maxJSONBody = 4 << 20

var (
	errRateLimited = errors.New("http: rate limited")
	errBadRequest  = errors.New("http: bad request")
)

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Issues  map[string]string `json:"issues,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
	Item    any    `json:"item,omitempty"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func badRequest(msg string) error {
	return &requestError{msg: msg}
}

type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func (e *requestError) Unwrap() error { return errBadRequest }

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return badRequest("request body required")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return badRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps err to a status and writes it with a message localized
// for the request. Unmapped errors are logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := mapError(err)
	if status == http.StatusInternalServerError {
		s.logger.WithContext(r.Context()).Error("http.request.failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
	if key := messageKeys[payload.Error]; key != "" {
		payload.Message = s.translator.Ctx(r.Context(), key)
	}
	writeJSON(w, status, payload)
}

var messageKeys = map[string]string{
	"validation_failed": "error.validation",
	"not_found":         "error.not_found",
	"conflict":          "error.conflict",
	"unauthorized":      "error.unauthorized",
	"forbidden":         "error.forbidden",
	"rate_limited":      "error.rate_limited",
	"internal_error":    "error.internal",
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "internal_error"}
	}

	if issues, ok := validationIssues(err); ok {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:  "validation_failed",
			Issues: issues,
		}
	}

	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()}
	case errors.Is(err, records.ErrNotFound), errors.Is(err, markdown.ErrDocumentNotFound):
		return http.StatusNotFound, errorResponse{Error: "not_found"}
	case errors.Is(err, records.ErrConflict), errors.Is(err, auth.ErrSelfRevoke):
		return http.StatusConflict, errorResponse{Error: "conflict"}
	case errors.Is(err, permissions.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrUnknownUser):
		return http.StatusUnauthorized, errorResponse{Error: "unauthorized"}
	case errors.Is(err, permissions.ErrPermissionDenied):
		return http.StatusForbidden, errorResponse{Error: "forbidden"}
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, errorResponse{Error: "rate_limited"}
	}

	return http.StatusInternalServerError, errorResponse{Error: "internal_error"}
}

// validationIssues collects per-field messages from the validation error
// shapes the services return.
func validationIssues(err error) (map[string]string, bool) {
	var recErr *records.ValidationError
	if errors.As(err, &recErr) {
		return recErr.Issues, true
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		issues := make(map[string]string, len(fieldErrs))
		for field, fieldErr := range fieldErrs {
			if fieldErr != nil {
				issues[field] = fieldErr.Error()
			}
		}
		return issues, true
	}
	if errors.Is(err, rules.ErrSchemaValidation) {
		issues := map[string]string{}
		for _, issue := range rules.Issues(err) {
			key := issue.Location
			if key == "" {
				key = "_"
			}
			issues[key] = issue.Message
		}
		return issues, true
	}
	switch {
	case errors.Is(err, media.ErrFileTooLarge):
		return map[string]string{"file": "file is too large"}, true
	case errors.Is(err, media.ErrUnsupportedType):
		return map[string]string{"file": "unsupported file type"}, true
	case errors.Is(err, media.ErrEmptyFile):
		return map[string]string{"file": "file is empty"}, true
	case errors.Is(err, richtext.ErrUnsupportedEmbed):
		return map[string]string{"url": "unsupported embed url"}, true
	}
	if goerrors.IsCategory(err, goerrors.CategoryValidation) {
		return map[string]string{"_": err.Error()}, true
	}
	return nil, false
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, badRequest("id required")
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, badRequest("invalid id")
	}
	return parsed, nil
}

func parseIntQuery(r *http.Request, key string, defaultValue, max int) int {
	trimmed := strings.TrimSpace(r.URL.Query().Get(key))
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed < 0 {
		return defaultValue
	}
	if max > 0 && parsed > max {
		return max
	}
	return parsed
}

// adminLimit reads ?limit for admin lists. Missing, zero or invalid values
// fall back to maxAdminList.
func adminLimit(r *http.Request) int {
	if limit := parseIntQuery(r, "limit", maxAdminList, maxAdminList); limit > 0 {
		return limit
	}
	return maxAdminList
}

func parseBoolValue(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (s *Server) requirePermission(w http.ResponseWriter, r *http.Request, permission string) bool {
	if strings.TrimSpace(permission) == "" {
		return true
	}
	if err := permissions.Require(r.Context(), permission); err != nil {
		s.writeError(w, r, err)
		return false
	}
	return true
}
