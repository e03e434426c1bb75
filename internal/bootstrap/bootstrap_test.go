package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/skillswap/internal/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Mode = "test"
	cfg.Database.Driver = "memory"
	cfg.JWT.Secret = "test-secret"

	lgr := zerolog.Nop()
	storage, err := SetupStorage(context.Background(), cfg, lgr)
	require.NoError(t, err)
	bus, err := SetupBus(context.Background(), cfg, lgr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })

	deps := BuildDependencies(cfg, storage, bus, lgr)
	return &apiClient{t: t, router: SetupRouter(cfg, deps, lgr)}
}

func (a *apiClient) do(method, path, token string, body interface{}) (int, envelope) {
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
	a.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

type session struct {
	token string
	id    string
}

func (a *apiClient) register(email, name string, teach, learn []string) session {
	a.t.Helper()

	code, env := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": email, "password": "secret123", "fullName": name,
	})
	require.Equal(a.t, http.StatusCreated, code)

	auth := decode[struct {
		Token struct {
			AccessToken string `json:"accessToken"`
		} `json:"token"`
		Profile struct {
			ID string `json:"id"`
		} `json:"profile"`
	}](a.t, env)

	s := session{token: auth.Token.AccessToken, id: auth.Profile.ID}
	code, _ = a.do(http.MethodPatch, "/api/v1/profile/me", s.token, map[string]interface{}{
		"skillsTeach":    teach,
		"skillsLearn":    learn,
		"campusLocation": "Library",
	})
	require.Equal(a.t, http.StatusOK, code)
	return s
}

func TestSkillSwapFlow(t *testing.T) {
	api := newTestAPI(t)

	alice := api.register("alice@campus.edu", "Alice", []string{"Go"}, []string{"Piano"})
	bob := api.register("bob@campus.edu", "Bob", []string{"Piano"}, []string{"Go"})

	// matches
	code, env := api.do(http.MethodGet, "/api/v1/matches", alice.token, nil)
	require.Equal(t, http.StatusOK, code)
	matches := decode[[]struct {
		Profile struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"profile"`
		Compatibility int `json:"compatibility"`
	}](t, env)
	require.Len(t, matches, 1)
	assert.Equal(t, bob.id, matches[0].Profile.ID)
	assert.Equal(t, 100, matches[0].Compatibility)
	assert.Empty(t, matches[0].Profile.Email)

	// request + duplicate in either direction
	code, env = api.do(http.MethodPost, "/api/v1/connections", alice.token, map[string]string{"receiverId": bob.id})
	require.Equal(t, http.StatusCreated, code)
	conn := decode[struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}](t, env)
	assert.Equal(t, "pending", conn.Status)

	code, env = api.do(http.MethodPost, "/api/v1/connections", bob.token, map[string]string{"receiverId": alice.id})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONN_003", env.Error.Code)

	// chat is refused while pending
	code, env = api.do(http.MethodPost, "/api/v1/conversations/"+conn.ID+"/messages", alice.token, map[string]string{"content": "hi"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONN_002", env.Error.Code)

	// only the receiver may answer
	code, env = api.do(http.MethodPut, "/api/v1/connections/"+conn.ID, alice.token, map[string]string{"status": "accepted"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "AUTH_009", env.Error.Code)

	code, _ = api.do(http.MethodPut, "/api/v1/connections/"+conn.ID, bob.token, map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, code)

	code, env = api.do(http.MethodPut, "/api/v1/connections/"+conn.ID, bob.token, map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONN_001", env.Error.Code)

	code, env = api.do(http.MethodGet, "/api/v1/connections/status/"+alice.id, bob.token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "connected", decode[struct {
		Status string `json:"status"`
	}](t, env).Status)

	// conversation
	for _, m := range []struct {
		token, content string
	}{{alice.token, "hi"}, {bob.token, "hello"}, {alice.token, "  tomorrow?  "}} {
		code, _ = api.do(http.MethodPost, "/api/v1/conversations/"+conn.ID+"/messages", m.token, map[string]string{"content": m.content})
		require.Equal(t, http.StatusCreated, code)
	}

	code, env = api.do(http.MethodPost, "/api/v1/conversations/"+conn.ID+"/messages", bob.token, map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "CHAT_001", env.Error.Code)

	code, env = api.do(http.MethodGet, "/api/v1/conversations/"+conn.ID+"/messages", bob.token, nil)
	require.Equal(t, http.StatusOK, code)
	history := decode[[]struct {
		Content string `json:"content"`
		Seq     int64  `json:"seq"`
	}](t, env)
	require.Len(t, history, 3)
	for i, m := range history {
		assert.Equal(t, int64(i+1), m.Seq)
	}
	assert.Equal(t, "tomorrow?", history[2].Content)

	code, env = api.do(http.MethodGet, "/api/v1/conversations/"+conn.ID+"/messages?after_seq=2", alice.token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]struct{}](t, env), 1)

	code, env = api.do(http.MethodGet, "/api/v1/conversations", alice.token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]struct{}](t, env), 1)
}

func TestOutsiderCannotReadConversation(t *testing.T) {
	api := newTestAPI(t)

	alice := api.register("alice@campus.edu", "Alice", []string{"Go"}, []string{"Piano"})
	bob := api.register("bob@campus.edu", "Bob", []string{"Piano"}, []string{"Go"})
	eve := api.register("eve@campus.edu", "Eve", nil, nil)

	code, env := api.do(http.MethodPost, "/api/v1/connections", alice.token, map[string]string{"receiverId": bob.id})
	require.Equal(t, http.StatusCreated, code)
	connID := decode[struct {
		ID string `json:"id"`
	}](t, env).ID

	code, env = api.do(http.MethodGet, "/api/v1/conversations/"+connID+"/messages", eve.token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "AUTH_009", env.Error.Code)

	code, _ = api.do(http.MethodPut, "/api/v1/connections/"+connID, eve.token, map[string]string{"status": "accepted"})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAuthErrors(t *testing.T) {
	api := newTestAPI(t)
	api.register("alice@campus.edu", "Alice", nil, nil)

	code, env := api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "ALICE@campus.edu", "password": "secret123", "fullName": "Alice Again",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "RES_002", env.Error.Code)

	code, env = api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "alice@campus.edu", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "AUTH_001", env.Error.Code)

	code, _ = api.do(http.MethodPost, "/api/v1/connections", "", map[string]string{"receiverId": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VAL_001", env.Error.Code)
}
