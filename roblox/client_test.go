package roblox

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	c := New()
	c.BaseURL = server.URL
	return c
}

func TestResolveID(t *testing.T) {
	c := testClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/usernames/users", r.URL.Path)

		var body struct {
			Usernames []string `json:"usernames"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"builderman"}, body.Usernames)

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": 156, "name": "builderman"}},
		})
	})

	id, err := c.ResolveID("builderman")
	require.NoError(t, err)
	assert.Equal(t, int64(156), id)
}

func TestResolveIDUnknownUser(t *testing.T) {
	c := testClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	})

	_, err := c.ResolveID("nobody")
	assert.Error(t, err)
}

func TestResolveIDServerError(t *testing.T) {
	c := testClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.ResolveID("builderman")
	assert.Error(t, err)
}

func TestGetProfile(t *testing.T) {
	c := testClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/users/156", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]any{
			"name":        "builderman",
			"description": "my bio with cat-house-banana in it",
		})
	})

	profile, err := c.GetProfile(156)
	require.NoError(t, err)
	assert.Equal(t, "builderman", profile.Name)
	assert.Contains(t, profile.Description, "cat-house-banana")
}

func TestGetProfileNotFound(t *testing.T) {
	c := testClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetProfile(1)
	assert.Error(t, err)
}
