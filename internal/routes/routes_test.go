package routes_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/shelf/internal/app"
	"github.com/templui/shelf/internal/config"
	"github.com/templui/shelf/internal/markdown"
	"github.com/templui/shelf/internal/metrics"
	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/repository"
	"github.com/templui/shelf/internal/routes"
	"github.com/templui/shelf/internal/service"
	"github.com/templui/shelf/internal/testutil"
	"github.com/templui/shelf/internal/ui"
)

const testPassword = "correct-horse-battery-staple"

type api struct {
	t       *testing.T
	handler http.Handler
}

func newAPI(t *testing.T) *api {
	t.Helper()

	database := testutil.NewDB(t)
	store := repository.NewStore(database)
	cfg := &config.Config{
		AppName:        "Shelf",
		AppEnv:         "development",
		JWTSecret:      "test-secret",
		JWTExpiry:      time.Hour,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	auth := service.NewAuthService(store, cfg.JWTSecret, cfg.JWTExpiry)
	feed := service.NewFeedService(store, markdown.NewRenderer(), 0, 0)

	a := &app.App{
		Cfg:               cfg,
		DB:                database,
		Registry:          registry,
		Metrics:           collector,
		AuthService:       auth,
		UserService:       service.NewUserService(store, auth, nil),
		ProfileService:    service.NewProfileService(store, feed, nil),
		SocialService:     service.NewSocialService(store),
		CatalogService:    service.NewCatalogService(store, nil),
		ActivityService:   service.NewActivityService(store, collector),
		EngagementService: service.NewEngagementService(store, collector),
		FeedService:       feed,
		DiscoveryService:  service.NewDiscoveryService(store, 0),
		ListService:       service.NewListService(store),
	}

	handler, limiters := routes.SetupRoutes(a)
	t.Cleanup(func() {
		for _, limiter := range limiters {
			limiter.Stop()
		}
	})

	return &api{t: t, handler: handler}
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *api) register(username string) string {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/auth/register", "", service.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: testPassword,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var session struct {
		Token string `json:"token"`
	}
	decode(a.t, rec, &session)
	require.NotEmpty(a.t, session.Token)
	return session.Token
}

func (a *api) importBook(token, title string) *model.Content {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/contents/import", token, service.ImportInput{
		Source:     model.SourceOpenLibrary,
		ExternalID: "OL-" + title,
		Type:       model.ContentTypeBook,
		Title:      title,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var content model.Content
	decode(a.t, rec, &content)
	return &content
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestAuthFlow(t *testing.T) {
	a := newAPI(t)
	token := a.register("alice")

	t.Run("login", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "ALICE@example.com",
			"password": testPassword,
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		var cookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == "auth_token" {
				cookie = c
			}
		}
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "not-the-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("duplicate username", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/auth/register", "", service.RegisterInput{
			Username: "Alice",
			Email:    "other@example.com",
			Password: testPassword,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)

		var body ui.ErrorBody
		decode(t, rec, &body)
		assert.Equal(t, "username", body.Field)
	})

	t.Run("feed requires auth", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/feed", "", nil).Code)
		assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/feed", "garbage", nil).Code)
		assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/feed", token, nil).Code)
	})

	t.Run("own lists", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/lists", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var lists []*model.List
		decode(t, rec, &lists)
		assert.Len(t, lists, 4)
	})
}

func TestFollowRateLikeFlow(t *testing.T) {
	a := newAPI(t)
	alice := a.register("alice")
	bob := a.register("bob")

	rec := a.do(http.MethodPost, "/profiles/alice/follow", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	book := a.importBook(alice, "Dune")

	rec = a.do(http.MethodPost, "/contents/"+book.ID+"/rating", alice, map[string]any{"score": 8})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/feed", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page model.FeedPage
	decode(t, rec, &page)
	require.Len(t, page.Cards, 1)
	card := page.Cards[0]
	assert.Equal(t, "alice", card.Actor)
	assert.Equal(t, model.ActivityTypeRating, card.Type)
	require.NotNil(t, card.Rating)
	assert.Equal(t, 8, card.Rating.Score)
	assert.False(t, page.HasMore)

	rec = a.do(http.MethodPost, "/activities/"+card.ID+"/like", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var like model.LikeState
	decode(t, rec, &like)
	assert.True(t, like.Liked)
	assert.Equal(t, 1, like.LikeCount)

	rec = a.do(http.MethodPost, "/activities/"+card.ID+"/comments", bob, map[string]string{"text": "great pick"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var thread model.CommentThread
	decode(t, rec, &thread)
	assert.Equal(t, 1, thread.CommentCount)

	rec = a.do(http.MethodDelete, "/profiles/alice/follow", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodGet, "/feed", bob, nil)
	decode(t, rec, &page)
	assert.Empty(t, page.Cards)
}

func TestErrorMapping(t *testing.T) {
	a := newAPI(t)
	alice := a.register("alice")
	book := a.importBook(alice, "Emma")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		field  string
	}{
		{"score out of range", http.MethodPost, "/contents/" + book.ID + "/rating", map[string]any{"score": 11}, http.StatusBadRequest, "score"},
		{"fractional score", http.MethodPost, "/contents/" + book.ID + "/rating", map[string]any{"score": 7.5}, http.StatusBadRequest, "score"},
		{"missing score", http.MethodPost, "/contents/" + book.ID + "/rating", map[string]any{}, http.StatusBadRequest, "score"},
		{"blank review", http.MethodPost, "/contents/" + book.ID + "/reviews", map[string]string{"text": "  "}, http.StatusBadRequest, "text"},
		{"unknown content", http.MethodGet, "/contents/missing", nil, http.StatusNotFound, ""},
		{"self follow", http.MethodPost, "/profiles/alice/follow", nil, http.StatusForbidden, ""},
		{"unknown profile", http.MethodGet, "/profiles/nobody", nil, http.StatusNotFound, ""},
		{"bad discovery mode", http.MethodGet, "/discover/book/newest", nil, http.StatusBadRequest, "mode"},
		{"bad cursor", http.MethodGet, "/feed?cursor=%21%21", nil, http.StatusBadRequest, "cursor"},
		{"feed page overflow", http.MethodGet, "/feed?page=999999999999", nil, http.StatusBadRequest, "page"},
		{"profile page overflow", http.MethodGet, "/profiles/alice?page=999999999999", nil, http.StatusBadRequest, "page"},
		{"unknown route", http.MethodGet, "/nope", nil, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(tt.method, tt.path, alice, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			if tt.field != "" {
				var body ui.ErrorBody
				decode(t, rec, &body)
				assert.Equal(t, tt.field, body.Field)
			}
		})
	}
}

func TestMalformedBody(t *testing.T) {
	a := newAPI(t)
	alice := a.register("alice")

	req := httptest.NewRequest(http.MethodPost, "/lists", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+alice)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListToggleAndDiscovery(t *testing.T) {
	a := newAPI(t)
	alice := a.register("alice")
	book := a.importBook(alice, "Persuasion")

	rec := a.do(http.MethodPost, "/lists", alice, service.CreateListInput{Name: "Favourites"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var list model.List
	decode(t, rec, &list)

	rec = a.do(http.MethodPost, "/lists/"+list.ID+"/items/"+book.ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var toggle model.ListToggle
	decode(t, rec, &toggle)
	assert.True(t, toggle.Member)

	rec = a.do(http.MethodGet, "/discover/book/popular", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ranked []*model.RankedContent
	decode(t, rec, &ranked)
	require.Len(t, ranked, 1)
	assert.Equal(t, 1, ranked[0].ListCount)

	rec = a.do(http.MethodGet, "/discover/book", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	bob := a.register("bob")
	rec = a.do(http.MethodPost, "/lists/"+list.ID+"/items/"+book.ID, bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAvatarUploadDisabled(t *testing.T) {
	a := newAPI(t)
	alice := a.register("alice")

	req := httptest.NewRequest(http.MethodPost, "/profile/avatar", bytes.NewBufferString(""))
	req.Header.Set("Authorization", "Bearer "+alice)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	a := newAPI(t)
	a.register("alice")

	rec := a.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shelf_http_requests_total")
}
