package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/vigor_shop/internal/models"
)

// fakeES answers the handful of endpoints the index uses. The product header
// is what the client checks to accept a server as Elasticsearch.
type fakeES struct {
	mu         sync.Mutex
	docs       map[string]json.RawMessage
	lastSearch map[string]any
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Path == "/" || r.URL.Path == "":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)
	case len(parts) == 3 && parts[1] == "_doc" && r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.docs[parts[2]] = body
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case len(parts) == 3 && parts[1] == "_doc" && r.Method == http.MethodDelete:
		if _, ok := f.docs[parts[2]]; !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		delete(f.docs, parts[2])
		_, _ = io.WriteString(w, `{"result":"deleted"}`)
	case len(parts) == 2 && parts[1] == "_search":
		_ = json.NewDecoder(r.Body).Decode(&f.lastSearch)
		hits := make([]map[string]json.RawMessage, 0, len(f.docs))
		for _, d := range f.docs {
			hits = append(hits, map[string]json.RawMessage{"_source": d})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"hits": map[string]any{"total": map[string]any{"value": len(hits)}, "hits": hits},
		})
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"unsupported"}`)
	}
}

func newIndex(t *testing.T) (*Index, *fakeES) {
	t.Helper()
	fake := &fakeES{docs: map[string]json.RawMessage{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "", "")
	require.NoError(t, err)
	return NewIndex(client, "products"), fake
}

func TestIndex(t *testing.T) {
	ix, fake := newIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.Ping(ctx))

	p := models.Product{
		ID:       uuid.New(),
		Slug:     "shilajit-himalayan",
		Title:    "Himalayan Shilajit Resin",
		Price:    1799,
		IsActive: true,
		Category: &models.Category{Slug: "sexual-wellness", Name: "Sexual Wellness"},
	}
	require.NoError(t, ix.Put(ctx, p))

	total, items, err := ix.Search(ctx, "shilajt", "sexual-wellness", 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, p.ID, items[0].ID)
	assert.Equal(t, "sexual-wellness", items[0].Category.Slug)

	query, _ := json.Marshal(fake.lastSearch)
	assert.Contains(t, string(query), `"fuzziness":"AUTO"`)
	assert.Contains(t, string(query), `"category.slug.keyword":"sexual-wellness"`)
	assert.Contains(t, string(query), `"isActive":true`)

	require.NoError(t, ix.Remove(ctx, p.ID.String()))
	require.NoError(t, ix.Remove(ctx, p.ID.String()), "removing twice is fine")

	total, _, err = ix.Search(ctx, "shilajit", "", 0, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestIndex_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"cluster_block_exception"}`)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "", "")
	require.NoError(t, err)
	ix := NewIndex(client, "products")

	_, _, err = ix.Search(context.Background(), "ashwagandha", "", 0, 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
