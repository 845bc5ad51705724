package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("STREAM_API_KEY", "test-api-key")
	t.Setenv("STREAM_API_SECRET", testSecret)
	t.Setenv("STREAM_BASE_URL", srv.URL)

	return NewClient()
}

func assertAuth(t *testing.T, r *http.Request) {
	t.Helper()
	assert.Equal(t, "test-api-key", r.URL.Query().Get("api_key"))
	assert.Equal(t, "jwt", r.Header.Get("Stream-Auth-Type"))

	token, err := jwt.Parse(r.Header.Get("Authorization"), func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, true, claims["server"])
}

func TestQueryUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		assertAuth(t, r)

		var payload struct {
			FilterConditions map[string]map[string]string `json:"filter_conditions"`
		}
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("payload")), &payload))
		assert.Equal(t, "ana__x_com", payload.FilterConditions["id"]["$eq"])

		w.Write([]byte(`{"users": [{"id": "ana__x_com"}]}`))
	})

	exists, err := c.QueryUser(context.Background(), "ana__x_com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestQueryUser_Absent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"users": []}`))
	})

	exists, err := c.QueryUser(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpsertUser(t *testing.T) {
	var body map[string]map[string]map[string]string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		assertAuth(t, r)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{}`))
	})

	err := c.UpsertUser(context.Background(), "ana__x_com", "Ana", "ana!@x.com", "user")
	require.NoError(t, err)

	u := body["users"]["ana__x_com"]
	require.NotNil(t, u)
	assert.Equal(t, "ana__x_com", u["id"])
	assert.Equal(t, "Ana", u["name"])
	assert.Equal(t, "ana!@x.com", u["email"])
	assert.Equal(t, "user", u["role"])
}

func TestEnsureChannel(t *testing.T) {
	var body map[string]map[string]string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/channels/messaging/chat-ana__x_com/query", r.URL.Path)
		assertAuth(t, r)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{}`))
	})

	err := c.EnsureChannel(context.Background(), "messaging", "chat-ana__x_com", "AI Chat", "ai_bot")
	require.NoError(t, err)

	assert.Equal(t, "AI Chat", body["data"]["name"])
	assert.Equal(t, "ai_bot", body["data"]["created_by_id"])
}

func TestSendMessage(t *testing.T) {
	var body map[string]map[string]string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/channels/messaging/chat-ana__x_com/message", r.URL.Path)
		assertAuth(t, r)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{}`))
	})

	err := c.SendMessage(context.Background(), "messaging", "chat-ana__x_com", "ai_bot", "hello")
	require.NoError(t, err)

	assert.Equal(t, "hello", body["message"]["text"])
	assert.Equal(t, "ai_bot", body["message"]["user_id"])
}

func TestAPIErrorSurfaced(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "forbidden"}`))
	})

	err := c.UpsertUser(context.Background(), "ana", "Ana", "a@x.com", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stream api error")
}
