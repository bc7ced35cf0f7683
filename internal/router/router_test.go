package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/eventhub/config"
	"github.com/oksasatya/eventhub/internal/application"
	"github.com/oksasatya/eventhub/internal/container"
	"github.com/oksasatya/eventhub/internal/domain/entity"
	"github.com/oksasatya/eventhub/internal/infrastructure/seed"
	"github.com/oksasatya/eventhub/internal/interface/middleware"
	"github.com/oksasatya/eventhub/pkg/validation"
)

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	Error   map[string]any  `json:"error"`
}

type api struct {
	t      *testing.T
	engine *gin.Engine
	c      *container.Container
}

func newAPI(t *testing.T, opts ...func(*config.Config)) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	cfg := &config.Config{
		SessionBackend:      "memory",
		SessionKey:          "currentUser",
		BcryptCost:          bcrypt.MinCost,
		AuthRateLimitRPS:    100,
		AuthRateLimitBurst:  100,
		DebugMetricsEnabled: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	ctx := context.Background()
	c, err := container.New(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Catalog.Initialize(ctx))
	require.NoError(t, c.Messages.Initialize(ctx))

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	reg := NewRegistry(r)
	reg.Use(middleware.RealIP())
	InitModules(reg, c)
	reg.RegisterAll()
	return &api{t: t, engine: r, c: c}
}

func (a *api) do(method, path string, body any, header ...string) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if json.Valid(w.Body.Bytes()) {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w.Code, env
}

func (a *api) login(email string) entity.User {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/login", map[string]string{"email": email, "password": seed.DefaultPassword})
	require.Equal(a.t, http.StatusOK, code)
	var u entity.User
	require.NoError(a.t, json.Unmarshal(env.Data, &u))
	return u
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func eventIDs(events []entity.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestIdentityRoutes(t *testing.T) {
	t.Run("should start anonymous", func(t *testing.T) {
		req := require.New(t)
		a := newAPI(t)

		code, env := a.do(http.MethodGet, "/api/session", nil)
		req.Equal(http.StatusOK, code)
		st := decode[application.IdentityState](t, env.Data)
		req.False(st.Authenticated)
	})

	t.Run("should reject bad credentials with the user-visible message", func(t *testing.T) {
		req := require.New(t)
		a := newAPI(t)

		code, env := a.do(http.MethodPost, "/api/login", map[string]string{"email": "alex@example.com", "password": "nope"})
		req.Equal(http.StatusUnauthorized, code)
		req.Equal(application.MsgInvalidCredentials, env.Message)
	})

	t.Run("should validate the login payload", func(t *testing.T) {
		req := require.New(t)
		a := newAPI(t)

		code, env := a.do(http.MethodPost, "/api/login", map[string]string{"email": "not-an-email"})
		req.Equal(http.StatusBadRequest, code)
		req.Equal("must be a valid email", env.Error["email"])
		req.Equal("is required", env.Error["password"])
	})

	t.Run("should log in, expose the session and log out", func(t *testing.T) {
		req := require.New(t)
		a := newAPI(t)

		u := a.login("alex@example.com")
		req.Equal("1", u.ID)

		_, env := a.do(http.MethodGet, "/api/session", nil)
		st := decode[application.IdentityState](t, env.Data)
		req.True(st.Authenticated)
		req.Equal("Alex Johnson", st.Current.Name)

		code, _ := a.do(http.MethodPost, "/api/logout", nil)
		req.Equal(http.StatusOK, code)
		code, _ = a.do(http.MethodPost, "/api/logout", nil)
		req.Equal(http.StatusUnauthorized, code)
	})

	t.Run("should register and refuse duplicates", func(t *testing.T) {
		req := require.New(t)
		a := newAPI(t)
		body := map[string]string{"name": "Nina Park", "email": "nina@example.com", "password": "secret1"}

		code, env := a.do(http.MethodPost, "/api/register", body)
		req.Equal(http.StatusCreated, code)
		req.Equal("6", decode[entity.User](t, env.Data).ID)

		code, env = a.do(http.MethodPost, "/api/register", body)
		req.Equal(http.StatusConflict, code)
		req.Equal(application.MsgEmailInUse, env.Message)
	})

	t.Run("should look up users and report dangling ids", func(t *testing.T) {
		req := require.New(t)
		a := newAPI(t)

		code, env := a.do(http.MethodGet, "/api/users/2", nil)
		req.Equal(http.StatusOK, code)
		req.Equal("Samantha Chen", decode[entity.User](t, env.Data).Name)

		code, _ = a.do(http.MethodGet, "/api/users/404", nil)
		req.Equal(http.StatusNotFound, code)
	})
}

func TestEventRoutes(t *testing.T) {
	t.Run("should filter through the query string", func(t *testing.T) {
		req := require.New(t)
		a := newAPI(t)

		code, env := a.do(http.MethodGet, "/api/events?category=workshop", nil)
		req.Equal(http.StatusOK, code)
		req.Equal([]string{"2"}, eventIDs(decode[[]entity.Event](t, env.Data)))

		_, env = a.do(http.MethodGet, "/api/events?q=JAZZ", nil)
		req.Equal([]string{"4"}, eventIDs(decode[[]entity.Event](t, env.Data)))

		_, env = a.do(http.MethodGet, "/api/events", nil)
		req.Len(decode[[]entity.Event](t, env.Data), 8)

		code, env = a.do(http.MethodGet, "/api/events?category=party", nil)
		req.Equal(http.StatusBadRequest, code)
		req.Contains(env.Error, "category")
	})

	t.Run("should select an event on lookup", func(t *testing.T) {
		req := require.New(t)
		a := newAPI(t)

		code, _ := a.do(http.MethodGet, "/api/events/selected", nil)
		req.Equal(http.StatusNotFound, code)

		code, _ = a.do(http.MethodGet, "/api/events/3", nil)
		req.Equal(http.StatusOK, code)

		_, env := a.do(http.MethodGet, "/api/events/selected", nil)
		req.Equal("3", decode[entity.Event](t, env.Data).ID)

		code, _ = a.do(http.MethodGet, "/api/events/999", nil)
		req.Equal(http.StatusNotFound, code)
	})

	t.Run("should require an identity to rsvp", func(t *testing.T) {
		code, _ := newAPI(t).do(http.MethodPost, "/api/events/3/rsvp", nil)
		require.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("should rsvp and leave", func(t *testing.T) {
		req := require.New(t)
		a := newAPI(t)
		a.login("jake@example.com")

		code, env := a.do(http.MethodPost, "/api/events/3/rsvp", nil)
		req.Equal(http.StatusOK, code)
		req.Equal(true, env.Meta["changed"])
		req.Contains(decode[entity.Event](t, env.Data).Participants, "5")

		_, env = a.do(http.MethodPost, "/api/events/3/rsvp", nil)
		req.Equal(false, env.Meta["changed"])

		code, env = a.do(http.MethodDelete, "/api/events/3/rsvp", nil)
		req.Equal(http.StatusOK, code)
		req.Equal([]string{"2", "3", "4"}, decode[entity.Event](t, env.Data).Participants)
	})

	t.Run("should keep the selection when joining another event", func(t *testing.T) {
		req := require.New(t)
		a := newAPI(t)
		a.login("jake@example.com")

		code, _ := a.do(http.MethodGet, "/api/events/5", nil)
		req.Equal(http.StatusOK, code)
		code, _ = a.do(http.MethodPost, "/api/events/3/rsvp", nil)
		req.Equal(http.StatusOK, code)
		code, _ = a.do(http.MethodDelete, "/api/events/3/rsvp", nil)
		req.Equal(http.StatusOK, code)

		_, env := a.do(http.MethodGet, "/api/events/selected", nil)
		req.Equal("5", decode[entity.Event](t, env.Data).ID)
	})

	t.Run("should refuse membership changes on past events", func(t *testing.T) {
		req := require.New(t)
		a := newAPI(t)
		a.login("jake@example.com")

		code, _ := a.do(http.MethodDelete, "/api/events/6/rsvp", nil)
		req.Equal(http.StatusConflict, code)
		code, _ = a.do(http.MethodPost, "/api/events/8/rsvp", nil)
		req.Equal(http.StatusConflict, code)
	})

	t.Run("should list participants", func(t *testing.T) {
		req := require.New(t)
		a := newAPI(t)

		code, env := a.do(http.MethodGet, "/api/events/5/participants", nil)
		req.Equal(http.StatusOK, code)
		users := decode[[]entity.User](t, env.Data)
		req.Len(users, 2)
		req.Equal("Miguel Rodriguez", users[0].Name)
	})

	t.Run("should create events for the current identity", func(t *testing.T) {
		req := require.New(t)
		a := newAPI(t)
		a.login("ava@example.com")

		start := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
		body := map[string]any{
			"title":            "Go Meetup",
			"description":      "Talks about Go in production.",
			"shortDescription": "Talks about Go.",
			"category":         "social",
			"startDate":        start,
			"endDate":          start.Add(2 * time.Hour),
			"location":         "Community Hall",
			"coverImage":       "https://images.example.com/meetup.jpg",
		}
		code, env := a.do(http.MethodPost, "/api/events", body)
		req.Equal(http.StatusCreated, code)
		created := decode[entity.Event](t, env.Data)
		req.Equal("4", created.CreatedBy)
		req.Equal([]string{"4"}, created.Participants)

		body["endDate"] = start.Add(-time.Hour)
		code, env = a.do(http.MethodPost, "/api/events", body)
		req.Equal(http.StatusBadRequest, code)
		req.Contains(env.Error, "endDate")

		body["endDate"] = start.Add(time.Hour)
		body["category"] = "party"
		code, env = a.do(http.MethodPost, "/api/events", body)
		req.Equal(http.StatusBadRequest, code)
		req.Contains(env.Error, "category")
	})

	t.Run("should split my events", func(t *testing.T) {
		req := require.New(t)
		a := newAPI(t)
		a.login("alex@example.com")

		code, env := a.do(http.MethodGet, "/api/me/events", nil)
		req.Equal(http.StatusOK, code)
		mine := decode[application.MyEvents](t, env.Data)
		req.Equal([]string{"4", "2", "1", "7"}, eventIDs(mine.Active))
		req.Equal([]string{"8", "6"}, eventIDs(mine.Past))
	})
}

func TestMessageRoutes(t *testing.T) {
	t.Run("should list an event's messages in order", func(t *testing.T) {
		req := require.New(t)
		a := newAPI(t)

		code, env := a.do(http.MethodGet, "/api/events/1/messages", nil)
		req.Equal(http.StatusOK, code)
		msgs := decode[[]entity.ChatMessage](t, env.Data)
		req.Len(msgs, 5)
		req.Equal("1", msgs[0].ID)
	})

	t.Run("should post as the current identity", func(t *testing.T) {
		req := require.New(t)
		a := newAPI(t)

		code, _ := a.do(http.MethodPost, "/api/events/1/messages", map[string]any{"content": "hello"})
		req.Equal(http.StatusUnauthorized, code)

		a.login("samantha@example.com")
		code, env := a.do(http.MethodPost, "/api/events/1/messages", map[string]any{
			"content":     "hello",
			"attachments": []map[string]string{{"type": "link", "url": "https://example.com/agenda"}},
		})
		req.Equal(http.StatusCreated, code)
		msg := decode[entity.ChatMessage](t, env.Data)
		req.Equal("2", msg.UserID)

		_, env = a.do(http.MethodGet, "/api/events/1/messages", nil)
		msgs := decode[[]entity.ChatMessage](t, env.Data)
		req.Len(msgs, 6)
		req.Equal("hello", msgs[5].Content)
		req.Equal(entity.AttachmentLink, msgs[5].Attachments[0].Type)
	})

	t.Run("should validate attachments", func(t *testing.T) {
		req := require.New(t)
		a := newAPI(t)
		a.login("samantha@example.com")

		code, _ := a.do(http.MethodPost, "/api/events/1/messages", map[string]any{
			"content":     "hello",
			"attachments": []map[string]string{{"type": "video", "url": "https://example.com/v"}},
		})
		req.Equal(http.StatusBadRequest, code)
	})
}

func TestPostRateLimit(t *testing.T) {
	req := require.New(t)
	a := newAPI(t, func(cfg *config.Config) {
		cfg.PostRateLimitRPS = 0.001
		cfg.PostRateLimitBurst = 2
	})
	body := map[string]any{"content": "hello"}

	a.login("samantha@example.com")
	for i := 0; i < 2; i++ {
		code, _ := a.do(http.MethodPost, "/api/events/1/messages", body)
		req.Equal(http.StatusCreated, code)
	}
	code, _ := a.do(http.MethodPost, "/api/events/1/messages", body)
	req.Equal(http.StatusTooManyRequests, code)

	a.login("jake@example.com")
	code, _ = a.do(http.MethodPost, "/api/events/1/messages", body)
	req.Equal(http.StatusCreated, code)
}

func TestDebugRoutes(t *testing.T) {
	req := require.New(t)
	a := newAPI(t)

	code, _ := a.do(http.MethodGet, "/api/debug/vars", nil, "X-Real-IP", "8.8.8.8")
	req.Equal(http.StatusForbidden, code)

	req2 := httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil)
	req2.Header.Set("X-Real-IP", "127.0.0.1")
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req2)
	req.Equal(http.StatusOK, w.Code)

	var vars map[string]json.RawMessage
	req.NoError(json.Unmarshal(w.Body.Bytes(), &vars))
	req.Contains(vars, "catalog")
	req.Contains(vars, "identity")
}
