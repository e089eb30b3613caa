package firecrawl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"researcher/internal/capability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeReturnsMarkdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/scrape", r.URL.Path)
		require.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"markdown": "# Acme\nWe build robots.",
				"metadata": map[string]string{"title": "Acme"},
			},
		})
	}))
	defer srv.Close()

	c := NewWithBaseURL("key", srv.URL)
	page, err := c.Scrape(context.Background(), "https://acme.example")
	require.NoError(t, err)
	assert.Equal(t, "# Acme\nWe build robots.", page.Content)
	assert.Equal(t, "Acme", page.Title)
}

func TestScrapeEmptyContentIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": map[string]interface{}{}})
	}))
	defer srv.Close()

	c := NewWithBaseURL("key", srv.URL)
	_, err := c.Scrape(context.Background(), "https://acme.example")

	var capErr *capability.Error
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, capability.KindScrape, capErr.Kind)
}

func TestSubmitReturnsHandle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/extract", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []interface{}{"https://careers.acme.example"}, body["urls"])
		assert.NotEmpty(t, body["prompt"])
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "id": "job-9"})
	}))
	defer srv.Close()

	c := NewWithBaseURL("key", srv.URL)
	handle, err := c.Submit(context.Background(), "https://careers.acme.example",
		map[string]interface{}{"type": "object"}, "extract jobs")
	require.NoError(t, err)
	assert.Equal(t, "job-9", handle)
}

func TestSubmitMissingIDIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "bad schema"})
	}))
	defer srv.Close()

	c := NewWithBaseURL("key", srv.URL)
	_, err := c.Submit(context.Background(), "https://x.example", nil, "")

	var capErr *capability.Error
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, capability.KindExtract, capErr.Kind)
}

func TestPollReportsStatusAndData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/extract/job-9", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "completed",
			"data":   map[string]interface{}{"jobs": []interface{}{}},
		})
	}))
	defer srv.Close()

	c := NewWithBaseURL("key", srv.URL)
	update, err := c.Poll(context.Background(), "job-9")
	require.NoError(t, err)
	assert.Equal(t, capability.ExtractCompleted, update.Status)
	assert.NotNil(t, update.Data)
}
