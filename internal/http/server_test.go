package http

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/crypto/bcrypt"

	"github.com/goliatone/go-parish/internal/articles"
	"github.com/goliatone/go-parish/internal/audio"
	"github.com/goliatone/go-parish/internal/audit"
	"github.com/goliatone/go-parish/internal/auth"
	"github.com/goliatone/go-parish/internal/contact"
	"github.com/goliatone/go-parish/internal/faq"
	"github.com/goliatone/go-parish/internal/links"
	"github.com/goliatone/go-parish/internal/markdown"
	"github.com/goliatone/go-parish/internal/media"
	"github.com/goliatone/go-parish/internal/pages"
	"github.com/goliatone/go-parish/internal/permissions"
	"github.com/goliatone/go-parish/internal/records"
	"github.com/goliatone/go-parish/internal/richtext"
	"github.com/goliatone/go-parish/internal/routes"
	"github.com/goliatone/go-parish/internal/schedules"
	"github.com/goliatone/go-parish/internal/team"
)

type testEnv struct {
	server   *httptest.Server
	svc      Services
	articles *records.MemoryStore[*articles.Article]
}

func newTestEnv(t *testing.T, opts ...Option) testEnv {
	t.Helper()

	sanitizer := richtext.NewSanitizer()
	log := audit.NewLog(audit.NewMemoryStore())
	withActivity := records.WithActivity(audit.NewRecorder(log, nil))
	storage := media.NewStorage(afero.NewMemMapFs(), "/media")
	mediaSvc := media.NewService(storage)
	articleStore := articles.NewMemoryStore()

	svc := Services{
		Articles:  articles.NewService(articleStore, sanitizer, withActivity),
		Pages:     pages.NewService(pages.NewMemoryStore(), sanitizer, withActivity),
		Team:      team.NewService(team.NewMemoryStore(), sanitizer, withActivity),
		Schedules: schedules.NewService(schedules.NewMemoryStore(), withActivity),
		FAQ:       faq.NewService(faq.NewMemoryStore(), sanitizer, withActivity),
		Audio:     audio.NewService(audio.NewMemoryStore(), mediaSvc, nil, withActivity),
		Links:     links.NewService(links.NewMemoryStores(), withActivity),
		Contact:   contact.NewService(contact.NewMemoryStores(), mediaSvc, nil),
		Auth: auth.NewService(auth.NewMemoryUserStore(), auth.NewMemoryRoleStore(),
			auth.WithBcryptCost(bcrypt.MinCost)),
		Media:     mediaSvc,
		Storage:   storage,
		Legal:     markdown.NewService(nil),
		Activity:  log,
		Sanitizer: sanitizer,
		URLs:      routes.New("https://paroisse.example"),
	}
	sessions := auth.NewSessions(auth.SessionConfig{
		Secret: "test-session-secret-test-session-secret",
		MaxAge: time.Hour,
	})
	srv := httptest.NewServer(NewServer(svc, sessions, opts...).Handler())
	t.Cleanup(srv.Close)
	return testEnv{server: srv, svc: svc, articles: articleStore}
}

type testClient struct {
	t    *testing.T
	base string
	http *http.Client
	csrf string
}

func (env testEnv) client(t *testing.T) *testClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &testClient{t: t, base: env.server.URL, http: &http.Client{Jar: jar}}
}

func (c *testClient) send(req *http.Request, wantStatus int) []byte {
	c.t.Helper()
	if c.csrf != "" {
		req.Header.Set("X-CSRF-Token", c.csrf)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != wantStatus {
		c.t.Fatalf("%s %s: expected status %d got %d (%s)", req.Method, req.URL.Path, wantStatus, resp.StatusCode, body)
	}
	return body
}

func (c *testClient) doJSON(method, path string, payload any, wantStatus int) []byte {
	c.t.Helper()
	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			c.t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, wantStatus)
}

// startSession fetches the CSRF token the admin and auth routes expect.
func (c *testClient) startSession() sessionResponse {
	c.t.Helper()
	var session sessionResponse
	decodeJSONBody(c.t, c.doJSON(http.MethodGet, "/auth/session", nil, http.StatusOK), &session)
	if session.CSRFToken == "" {
		c.t.Fatal("expected a csrf token")
	}
	c.csrf = session.CSRFToken
	return session
}

func (c *testClient) signIn(email, password string) sessionResponse {
	c.t.Helper()
	c.startSession()
	var session sessionResponse
	body := c.doJSON(http.MethodPost, "/auth/signin", map[string]string{"email": email, "password": password}, http.StatusOK)
	decodeJSONBody(c.t, body, &session)
	return session
}

func decodeJSONBody(t *testing.T, body []byte, target any) {
	t.Helper()
	if err := json.Unmarshal(body, target); err != nil {
		t.Fatalf("decode response: %v (%s)", err, body)
	}
}

func (env testEnv) createStaff(t *testing.T, email, role string) *auth.User {
	t.Helper()
	ctx := context.Background()
	user, err := env.svc.Auth.SignUp(ctx, email, "password123", "")
	if err != nil {
		t.Fatalf("sign up %s: %v", email, err)
	}
	if role != "" {
		if err := env.svc.Auth.Grant(ctx, user.ID, role); err != nil {
			t.Fatalf("grant %s: %v", role, err)
		}
	}
	return user
}

func TestPublicArticlesAndJSONNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if _, err := env.svc.Articles.Save(ctx, &articles.Article{
		Title: "Fête paroissiale", TitlePL: "Festyn parafialny", Slug: "fete-paroissiale", Published: true,
	}); err != nil {
		t.Fatalf("save published: %v", err)
	}
	if _, err := env.svc.Articles.Save(ctx, &articles.Article{Title: "Brouillon", Slug: "brouillon"}); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	c := env.client(t)

	var list listResponse[articles.View]
	decodeJSONBody(t, c.doJSON(http.MethodGet, "/api/articles", nil, http.StatusOK), &list)
	if list.Total != 1 || len(list.Items) != 1 || list.Items[0].Slug != "fete-paroissiale" {
		t.Fatalf("expected only the published article, got %+v", list)
	}

	var view articles.View
	decodeJSONBody(t, c.doJSON(http.MethodGet, "/api/articles/fete-paroissiale?lang=pl", nil, http.StatusOK), &view)
	if view.Title != "Festyn parafialny" {
		t.Fatalf("expected polish title, got %q", view.Title)
	}

	var notFound errorResponse
	decodeJSONBody(t, c.doJSON(http.MethodGet, "/api/articles/brouillon", nil, http.StatusNotFound), &notFound)
	if notFound.Error != "not_found" || notFound.Message != "Page introuvable" {
		t.Fatalf("unexpected draft response %+v", notFound)
	}

	decodeJSONBody(t, c.doJSON(http.MethodGet, "/nowhere?lang=pl", nil, http.StatusNotFound), &notFound)
	if notFound.Message != "Nie znaleziono strony" {
		t.Fatalf("expected localized 404, got %+v", notFound)
	}
}

func TestHomeLegalAndSitemap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if _, err := env.svc.Articles.Save(ctx, &articles.Article{Title: "Pèlerinage", Slug: "pelerinage", Published: true}); err != nil {
		t.Fatalf("save article: %v", err)
	}
	if _, err := env.svc.Links.Footer.Save(ctx, &links.FooterLink{Label: "Diocèse", URL: "https://diocese.example", Active: true}); err != nil {
		t.Fatalf("save footer link: %v", err)
	}
	c := env.client(t)

	var home homeResponse
	decodeJSONBody(t, c.doJSON(http.MethodGet, "/api/home", nil, http.StatusOK), &home)
	if len(home.Featured) != 1 || len(home.Footer.Links) != 1 {
		t.Fatalf("unexpected home payload %+v", home)
	}

	var doc markdown.Document
	decodeJSONBody(t, c.doJSON(http.MethodGet, "/api/legal/cookies?lang=pl", nil, http.StatusOK), &doc)
	if doc.Name != "cookies" || doc.HTML == "" {
		t.Fatalf("expected cookies document, got %+v", doc)
	}
	c.doJSON(http.MethodGet, "/api/legal/unknown", nil, http.StatusNotFound)

	sitemap := string(c.doJSON(http.MethodGet, "/sitemap.xml", nil, http.StatusOK))
	for _, want := range []string{
		"<loc>https://paroisse.example/actualites/pelerinage</loc>",
		"https://paroisse.example/pl/aktualnosci/pelerinage",
	} {
		if !strings.Contains(sitemap, want) {
			t.Fatalf("expected sitemap to contain %q:\n%s", want, sitemap)
		}
	}
}

func TestAdminRequiresStaffSession(t *testing.T) {
	env := newTestEnv(t)
	env.createStaff(t, "fidele@example.org", "")
	c := env.client(t)

	var resp errorResponse
	decodeJSONBody(t, c.doJSON(http.MethodGet, "/admin/api/articles", nil, http.StatusUnauthorized), &resp)
	if resp.Error != "unauthorized" || resp.Message != "Veuillez vous connecter" {
		t.Fatalf("unexpected 401 payload %+v", resp)
	}

	session := c.signIn("fidele@example.org", "password123")
	if !session.Authenticated || session.User.Staff {
		t.Fatalf("expected a signed-in non-staff user, got %+v", session)
	}
	decodeJSONBody(t, c.doJSON(http.MethodGet, "/admin/api/articles", nil, http.StatusForbidden), &resp)
	if resp.Error != "forbidden" {
		t.Fatalf("unexpected 403 payload %+v", resp)
	}
}

func TestSignInRejectsBadPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createStaff(t, "cure@example.org", permissions.RoleAdmin)
	c := env.client(t)
	c.startSession()
	c.doJSON(http.MethodPost, "/auth/signin", map[string]string{"email": "cure@example.org", "password": "wrong-password"}, http.StatusUnauthorized)
}

func TestAdminCRUDLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.createStaff(t, "cure@example.org", permissions.RoleAdmin)
	c := env.client(t)
	session := c.signIn("cure@example.org", "password123")
	if session.User == nil || session.User.Role != permissions.RoleAdmin {
		t.Fatalf("expected admin session, got %+v", session)
	}

	var invalid errorResponse
	decodeJSONBody(t, c.doJSON(http.MethodPost, "/admin/api/articles", map[string]any{"content": "<p>x</p>"}, http.StatusUnprocessableEntity), &invalid)
	if invalid.Issues["title"] == "" || invalid.Issues["slug"] == "" {
		t.Fatalf("expected title and slug issues, got %+v", invalid)
	}
	if env.articles.Len() != 0 {
		t.Fatalf("expected no write for an invalid article, got %d rows", env.articles.Len())
	}

	var created struct {
		Message string           `json:"message"`
		Item    articles.Article `json:"item"`
	}
	decodeJSONBody(t, c.doJSON(http.MethodPost, "/admin/api/articles", map[string]any{
		"title":     "Événement d'Été!",
		"auto_slug": true,
		"content":   `<p>Bienvenue</p><script>alert(1)</script>`,
	}, http.StatusCreated), &created)
	if created.Item.Slug != "evenement-d-ete" || strings.Contains(created.Item.Content, "script") {
		t.Fatalf("unexpected created article %+v", created.Item)
	}
	if created.Message != "Enregistré avec succès" {
		t.Fatalf("expected localized toast, got %q", created.Message)
	}
	itemPath := "/admin/api/articles/" + created.Item.ID.String()

	var toggled struct {
		Item articles.Article `json:"item"`
	}
	decodeJSONBody(t, c.doJSON(http.MethodPost, itemPath+"/toggle", nil, http.StatusOK), &toggled)
	if !toggled.Item.Published || toggled.Item.Title != created.Item.Title {
		t.Fatalf("expected only published to flip, got %+v", toggled.Item)
	}

	c.doJSON(http.MethodPost, "/admin/api/articles", map[string]any{"title": "Autre", "slug": "evenement-d-ete"}, http.StatusConflict)

	c.doJSON(http.MethodDelete, itemPath, nil, http.StatusOK)
	c.doJSON(http.MethodGet, itemPath, nil, http.StatusNotFound)
	var list listResponse[articles.Article]
	decodeJSONBody(t, c.doJSON(http.MethodGet, "/admin/api/articles", nil, http.StatusOK), &list)
	if list.Total != 0 {
		t.Fatalf("expected deleted article gone, got %+v", list)
	}

	var activity listResponse[audit.Entry]
	decodeJSONBody(t, c.doJSON(http.MethodGet, "/admin/api/activity", nil, http.StatusOK), &activity)
	if activity.Total < 3 {
		t.Fatalf("expected created, toggled and deleted entries, got %d", activity.Total)
	}
	for _, entry := range activity.Items {
		if entry.Channel == audit.ChannelAdmin && entry.ActorID != session.User.ID.String() {
			t.Fatalf("expected admin actor on %+v", entry)
		}
	}
}

func TestCSRFTokenRequiredForAdminWrites(t *testing.T) {
	env := newTestEnv(t)
	env.createStaff(t, "cure@example.org", permissions.RoleAdmin)
	c := env.client(t)
	c.signIn("cure@example.org", "password123")

	c.csrf = ""
	var resp errorResponse
	decodeJSONBody(t, c.doJSON(http.MethodPost, "/admin/api/faq", map[string]any{"question": "Q", "answer": "A"}, http.StatusForbidden), &resp)
	if resp.Error != "csrf_failed" {
		t.Fatalf("expected csrf failure, got %+v", resp)
	}
	c.doJSON(http.MethodGet, "/admin/api/faq", nil, http.StatusOK)
}

func TestRoleRevocationAppliesOnNextRequest(t *testing.T) {
	env := newTestEnv(t)
	editor := env.createStaff(t, "editeur@example.org", permissions.RoleEditor)
	c := env.client(t)
	c.signIn("editeur@example.org", "password123")

	c.doJSON(http.MethodGet, "/admin/api/articles", nil, http.StatusOK)
	c.doJSON(http.MethodGet, "/admin/api/messages", nil, http.StatusForbidden)
	c.doJSON(http.MethodGet, "/admin/api/roles", nil, http.StatusForbidden)

	if err := env.svc.Auth.Revoke(context.Background(), editor.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	c.doJSON(http.MethodGet, "/admin/api/articles", nil, http.StatusForbidden)
}

func TestAdminCannotRevokeThemselves(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createStaff(t, "cure@example.org", permissions.RoleAdmin)
	other := env.createStaff(t, "vicaire@example.org", "")
	c := env.client(t)
	c.signIn("cure@example.org", "password123")

	c.doJSON(http.MethodDelete, "/admin/api/roles/"+admin.ID.String(), nil, http.StatusConflict)
	c.doJSON(http.MethodPut, "/admin/api/roles/"+other.ID.String(), map[string]string{"role": "pope"}, http.StatusUnprocessableEntity)
	c.doJSON(http.MethodPut, "/admin/api/roles/"+other.ID.String(), map[string]string{"role": permissions.RoleEditor}, http.StatusOK)

	var accounts listResponse[auth.Account]
	decodeJSONBody(t, c.doJSON(http.MethodGet, "/admin/api/roles", nil, http.StatusOK), &accounts)
	roles := map[string]string{}
	for _, a := range accounts.Items {
		roles[a.Email] = a.Role
	}
	if roles["cure@example.org"] != permissions.RoleAdmin || roles["vicaire@example.org"] != permissions.RoleEditor {
		t.Fatalf("unexpected roles %v", roles)
	}
}

func pngFile(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func multipartRequest(t *testing.T, url string, fields map[string]string, fileField, filename string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		part, err := mw.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(file); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, &body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestContactFormWithAttachment(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)
	fields := map[string]string{
		"name":    "Marie",
		"email":   "marie@example.org",
		"message": "Bonjour, je souhaite inscrire mon fils au catéchisme.",
	}

	var sent messageResponse
	decodeJSONBody(t, c.send(multipartRequest(t, c.base+"/api/contact", fields, "attachment", "scan.png", pngFile(t)), http.StatusCreated), &sent)
	if sent.Message != "Merci Marie, votre message a bien été envoyé" {
		t.Fatalf("unexpected toast %q", sent.Message)
	}

	msgs, total, err := env.svc.Contact.Messages.List(context.Background(), records.ListOptions[*contact.Message]{})
	if err != nil || total != 1 {
		t.Fatalf("expected one stored message, got %d (%v)", total, err)
	}
	if msgs[0].AttachmentURL == "" || msgs[0].Locale != "fr" {
		t.Fatalf("unexpected stored message %+v", msgs[0])
	}
	c.send(mustRequest(t, http.MethodGet, c.base+msgs[0].AttachmentURL), http.StatusOK)

	var invalid errorResponse
	decodeJSONBody(t, c.send(multipartRequest(t, c.base+"/api/contact", map[string]string{"name": "Marie"}, "", "", nil), http.StatusUnprocessableEntity), &invalid)
	if invalid.Issues["email"] == "" || invalid.Issues["message"] == "" {
		t.Fatalf("expected email and message issues, got %+v", invalid)
	}

	decodeJSONBody(t, c.send(multipartRequest(t, c.base+"/api/contact", fields, "attachment", "notes.txt", []byte("plain text")), http.StatusUnprocessableEntity), &invalid)
	if invalid.Issues["attachment"] == "" {
		t.Fatalf("expected attachment issue, got %+v", invalid)
	}
	if _, total, _ := env.svc.Contact.Messages.List(context.Background(), records.ListOptions[*contact.Message]{}); total != 1 {
		t.Fatalf("expected rejected submissions to write nothing, got %d rows", total)
	}
}

func mustRequest(t *testing.T, method, url string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	return req
}

func TestNewsletterIsRateLimited(t *testing.T) {
	env := newTestEnv(t, WithRateLimiter(NewRateLimiter(1, 1)))
	c := env.client(t)

	c.doJSON(http.MethodPost, "/api/newsletter", map[string]string{"email": "a@example.org"}, http.StatusCreated)
	var limited errorResponse
	decodeJSONBody(t, c.doJSON(http.MethodPost, "/api/newsletter", map[string]string{"email": "b@example.org"}, http.StatusTooManyRequests), &limited)
	if limited.Error != "rate_limited" {
		t.Fatalf("unexpected payload %+v", limited)
	}
	c.doJSON(http.MethodGet, "/api/faq", nil, http.StatusOK)
}

func TestEditorEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.createStaff(t, "editeur@example.org", permissions.RoleEditor)
	c := env.client(t)
	c.signIn("editeur@example.org", "password123")

	var slug map[string]string
	decodeJSONBody(t, c.doJSON(http.MethodPost, "/admin/api/slugify", map[string]string{"title": "Événement d'Été!"}, http.StatusOK), &slug)
	if slug["slug"] != "evenement-d-ete" {
		t.Fatalf("unexpected slug %v", slug)
	}

	var preview previewPayload
	decodeJSONBody(t, c.doJSON(http.MethodPost, "/admin/api/richtext/preview", map[string]string{
		"html": `<p>Messe</p><script>x()</script><iframe src="https://www.youtube.com/embed/abc123def45"></iframe><iframe src="https://evil.example/x"></iframe>`,
	}, http.StatusOK), &preview)
	if strings.Contains(preview.HTML, "script") || strings.Contains(preview.HTML, "evil.example") || !strings.Contains(preview.HTML, "youtube.com/embed/abc123def45") {
		t.Fatalf("unexpected sanitized html %q", preview.HTML)
	}

	c.doJSON(http.MethodPost, "/admin/api/richtext/embed", map[string]string{"url": "https://evil.example/watch?v=1"}, http.StatusUnprocessableEntity)

	var cfg richtext.EditorConfig
	decodeJSONBody(t, c.doJSON(http.MethodGet, "/admin/api/richtext/config", nil, http.StatusOK), &cfg)
	if len(cfg.SpellcheckLanguages) != 2 || cfg.Limits.MaxImageBytes != media.DefaultLimits().MaxImageBytes {
		t.Fatalf("unexpected editor config %+v", cfg)
	}

	req := multipartRequest(t, c.base+"/admin/api/uploads/images", nil, "file", "photo.png", pngFile(t))
	var up uploadResponse
	decodeJSONBody(t, c.send(req, http.StatusCreated), &up)
	if !strings.HasPrefix(up.Upload.URL, "/media/") {
		t.Fatalf("unexpected upload url %q", up.Upload.URL)
	}
	c.send(mustRequest(t, http.MethodGet, c.base+up.Upload.URL), http.StatusOK)
}

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", records.FieldError("articles", "title", "required"), http.StatusUnprocessableEntity, "validation_failed"},
		{"not found", &records.NotFoundError{Resource: "pages", Key: "x"}, http.StatusNotFound, "not_found"},
		{"legal", markdown.ErrDocumentNotFound, http.StatusNotFound, "not_found"},
		{"conflict", &records.ConflictError{Resource: "articles"}, http.StatusConflict, "conflict"},
		{"self revoke", auth.ErrSelfRevoke, http.StatusConflict, "conflict"},
		{"unauthenticated", permissions.ErrUnauthenticated, http.StatusUnauthorized, "unauthorized"},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", permissions.Error{Permission: "roles:read"}, http.StatusForbidden, "forbidden"},
		{"rate", errRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{"upload", media.ErrUnsupportedType, http.StatusUnprocessableEntity, "validation_failed"},
		{"bad request", badRequest("invalid id"), http.StatusBadRequest, "bad_request"},
		{"other", io.ErrUnexpectedEOF, http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			if status != tc.status || payload.Error != tc.code {
				t.Fatalf("expected %d/%s, got %d/%s", tc.status, tc.code, status, payload.Error)
			}
		})
	}
}

func TestAdminLimitDefaultsToCap(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", maxAdminList},
		{"?limit=0", maxAdminList},
		{"?limit=-3", maxAdminList},
		{"?limit=abc", maxAdminList},
		{"?limit=20", 20},
		{"?limit=100000", maxAdminList},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/admin/api/articles"+tc.query, nil)
			if got := adminLimit(r); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}
