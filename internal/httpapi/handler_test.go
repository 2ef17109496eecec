package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nikbrunner/sl/internal/httpapi"
	"github.com/nikbrunner/sl/internal/loader"
	"github.com/nikbrunner/sl/internal/logger"
	"github.com/nikbrunner/sl/internal/model"
	"github.com/nikbrunner/sl/internal/provider"
	"github.com/nikbrunner/sl/internal/shortlink"
	"github.com/nikbrunner/sl/internal/storage"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

var fixedNow = time.UnixMilli(1_700_000_000_000)

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func setup(t *testing.T) (http.Handler, *provider.Store) {
	t.Helper()
	now := func() time.Time { return fixedNow }
	mem := storage.NewMemory()
	store := provider.NewStore(mem, loader.New(mem, loader.Options{Now: now}), now)
	svc := shortlink.NewService(shortlink.Params{Store: store, Now: now})
	return httpapi.NewRouter(svc, logger.NewNop()), store
}

func seed(t *testing.T, store *provider.Store, name string, urls ...string) {
	t.Helper()
	err := store.SetOne(context.Background(), name, model.StoredValue{URLs: urls, Date: 5})
	assert.NilError(t, err)
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := setup(t)

	rec := do(h, http.MethodGet, "/healthz", "")

	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, rec.Body.String(), "ok")
}

func TestGo_SingleURLRedirects(t *testing.T) {
	h, store := setup(t)
	seed(t, store, "docs", "https://docs.example.com")

	rec := do(h, http.MethodGet, "/go/docs", "")

	assert.Equal(t, rec.Code, http.StatusFound)
	assert.Equal(t, rec.Header().Get("Location"), "https://docs.example.com")

	v, ok, err := store.GetOne(context.Background(), "docs")
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Equal(t, v.Priority, 1)
}

func TestGo_SeveralURLsListed(t *testing.T) {
	h, store := setup(t)
	seed(t, store, "a", "https://a1", "https://a2")
	seed(t, store, "b", "https://b1")

	rec := do(h, http.MethodGet, "/go/a,b,zzz", "")

	assert.Equal(t, rec.Code, http.StatusOK)
	var body struct {
		URLs []string `json:"urls"`
	}
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.DeepEqual(t, body.URLs, []string{"https://a1", "https://a2", "https://b1"})
}

func TestGo_NothingFound(t *testing.T) {
	h, _ := setup(t)

	rec := do(h, http.MethodGet, "/go/missing", "")

	assert.Equal(t, rec.Code, http.StatusNotFound)
	var body errorBody
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, body.Status, "error")
	assert.Equal(t, body.Message, "shortlink not found")
}

func TestGo_NoNames(t *testing.T) {
	h, _ := setup(t)

	rec := do(h, http.MethodGet, "/go/,,", "")

	assert.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestList(t *testing.T) {
	h, store := setup(t)
	seed(t, store, "a", "https://a")
	seed(t, store, "b", "https://b")

	rec := do(h, http.MethodGet, "/api/shortlinks", "")

	assert.Equal(t, rec.Code, http.StatusOK)
	var body struct {
		Shortlinks []model.Shortlink `json:"shortlinks"`
		Count      int               `json:"count"`
	}
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, body.Count, 2)
	assert.Check(t, is.Len(body.Shortlinks, 2))
}

func TestList_Empty(t *testing.T) {
	h, _ := setup(t)

	rec := do(h, http.MethodGet, "/api/shortlinks", "")

	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Check(t, is.Contains(rec.Body.String(), `"shortlinks":[]`))
}

func TestGet(t *testing.T) {
	h, store := setup(t)
	seed(t, store, "docs", "https://docs")

	rec := do(h, http.MethodGet, "/api/shortlinks/docs", "")

	assert.Equal(t, rec.Code, http.StatusOK)
	var link model.Shortlink
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &link))
	assert.DeepEqual(t, link, model.Shortlink{Name: "docs", URLs: []string{"https://docs"}, Date: 5})

	rec = do(h, http.MethodGet, "/api/shortlinks/nope", "")
	assert.Equal(t, rec.Code, http.StatusNotFound)
}

func TestPut(t *testing.T) {
	h, store := setup(t)
	seed(t, store, "docs", "https://old")

	rec := do(h, http.MethodPut, "/api/shortlinks/docs", `{"urls":["https://new1","https://new2"]}`)

	assert.Equal(t, rec.Code, http.StatusOK)
	v, ok, err := store.GetOne(context.Background(), "docs")
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.DeepEqual(t, v.URLs, []string{"https://new1", "https://new2"})
	assert.Equal(t, v.Date, fixedNow.UnixMilli())
}

func TestPut_Errors(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		body    string
		code    int
		message string
		field   string
	}{
		{
			name:    "empty body",
			target:  "/api/shortlinks/docs",
			code:    http.StatusBadRequest,
			message: "empty request body",
		},
		{
			name:    "bad json",
			target:  "/api/shortlinks/docs",
			body:    `{"urls":`,
			code:    http.StatusBadRequest,
			message: "invalid request body",
		},
		{
			name:    "missing urls",
			target:  "/api/shortlinks/docs",
			body:    `{}`,
			code:    http.StatusBadRequest,
			message: "validation error",
			field:   "urls",
		},
		{
			name:    "invalid url",
			target:  "/api/shortlinks/docs",
			body:    `{"urls":["not a url"]}`,
			code:    http.StatusBadRequest,
			message: "validation error",
			field:   "urls[0]",
		},
		{
			name:    "unknown shortlink",
			target:  "/api/shortlinks/nope",
			body:    `{"urls":["https://x"]}`,
			code:    http.StatusNotFound,
			message: "shortlink not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store := setup(t)
			seed(t, store, "docs", "https://old")

			rec := do(h, http.MethodPut, tt.target, tt.body)

			assert.Equal(t, rec.Code, tt.code)
			var body errorBody
			assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, body.Message, tt.message)
			if tt.field != "" {
				assert.Assert(t, is.Len(body.Errors, 1))
				assert.Equal(t, body.Errors[0].Field, tt.field)
			}

			v, _, err := store.GetOne(context.Background(), "docs")
			assert.NilError(t, err)
			assert.DeepEqual(t, v.URLs, []string{"https://old"})
		})
	}
}

func TestDelete(t *testing.T) {
	h, store := setup(t)
	seed(t, store, "docs", "https://docs")

	rec := do(h, http.MethodDelete, "/api/shortlinks/docs", "")
	assert.Equal(t, rec.Code, http.StatusNoContent)

	_, ok, err := store.GetOne(context.Background(), "docs")
	assert.NilError(t, err)
	assert.Assert(t, !ok)

	rec = do(h, http.MethodDelete, "/api/shortlinks/docs", "")
	assert.Equal(t, rec.Code, http.StatusNoContent)
}

func TestDelete_NameIsNotAList(t *testing.T) {
	h, store := setup(t)
	seed(t, store, "a", "https://a")
	seed(t, store, "b", "https://b")

	rec := do(h, http.MethodDelete, "/api/shortlinks/a,b", "")
	assert.Equal(t, rec.Code, http.StatusNoContent)

	for _, name := range []string{"a", "b"} {
		_, ok, err := store.GetOne(context.Background(), name)
		assert.NilError(t, err)
		assert.Assert(t, ok, "%s should survive", name)
	}
}

func TestRateLimited(t *testing.T) {
	now := func() time.Time { return fixedNow }
	mem := storage.NewMemory()
	store := provider.NewStore(mem, loader.New(mem, loader.Options{Now: now}), now)
	throttled := provider.NewThrottled(store, provider.Quota{Burst: 1, PerMinute: 1}, now)
	svc := shortlink.NewService(shortlink.Params{Store: throttled, Now: now})
	h := httpapi.NewRouter(svc, logger.NewNop())
	seed(t, store, "docs", "https://docs")

	rec := do(h, http.MethodPut, "/api/shortlinks/docs", `{"urls":["https://one"]}`)
	assert.Equal(t, rec.Code, http.StatusOK)

	rec = do(h, http.MethodPut, "/api/shortlinks/docs", `{"urls":["https://two"]}`)
	assert.Equal(t, rec.Code, http.StatusTooManyRequests)
}
