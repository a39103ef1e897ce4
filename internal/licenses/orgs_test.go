package licenses

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizations_PayloadShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "7707083893", payload["commonSearchString"])

		statuses, ok := payload["organizationStatuses"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, []any{"REGISTERED"}, statuses["coll"])
		assert.Equal(t, "OR", statuses["operand"])

		roles, ok := payload["roleConstraints"].(map[string]any)
		require.True(t, ok)
		assert.Len(t, roles["coll"], 5)

		w.Write([]byte(`{"total": 1, "items": [{"shortName": "ооо управдом"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	got, err := c.Organizations(context.Background(), "7707083893")
	require.NoError(t, err)
	assert.Equal(t, float64(1), got["total"])
}

func TestOrganizations_NonSuccessIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Organizations(context.Background(), "7707083893")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestOrganization_ByGUID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "guid-1", r.URL.Query().Get("organizationGuid"))
		w.Write([]byte(`{"guid": "guid-1"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	got, err := c.Organization(context.Background(), "guid-1")
	require.NoError(t, err)
	assert.Equal(t, "guid-1", got["guid"])
}

func TestOrganization_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	got, err := c.Organization(context.Background(), "guid-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHouses_ActualFlag(t *testing.T) {
	var gotActual []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1100000100000", r.URL.Query().Get("houseCodes"))
		assert.Equal(t, "false", r.URL.Query().Get("includeDuplicates"))
		gotActual = append(gotActual, r.URL.Query().Get("actual"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.ActiveHouses(context.Background(), "1100000100000")
	require.NoError(t, err)
	_, err = c.NotActiveHouses(context.Background(), "1100000100000")
	require.NoError(t, err)

	assert.Equal(t, []string{"true", "false"}, gotActual)
}
