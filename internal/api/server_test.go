package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pbaille/ideas/internal/controller"
	"github.com/pbaille/ideas/internal/dom"
	"github.com/pbaille/ideas/internal/domain"
	"github.com/pbaille/ideas/internal/remote"
	"github.com/pbaille/ideas/internal/render"
	"github.com/pbaille/ideas/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "ideas.db"))
	if err != nil {
		t.Fatalf("store.New error: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(New(s, "", logger).Handler())
	t.Cleanup(srv.Close)
	return srv, s
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected health response: %d %v", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestCreateIdea_TrimsAndFiltersTags(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/ideas", `{"title":"  T ","description":" D ","tags":[" a ",""," ","b"]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var idea domain.Idea
	if err := json.NewDecoder(resp.Body).Decode(&idea); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if idea.Title != "T" || idea.Description != "D" || strings.Join(idea.Tags, ",") != "a,b" || idea.Likes != 0 {
		t.Fatalf("unexpected idea: %+v", idea)
	}
}

func TestCreateIdea_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := map[string]struct {
		body   string
		status int
	}{
		"bad json":          {`{`, http.StatusUnprocessableEntity},
		"title not string":  {`{"title":1,"description":"d"}`, http.StatusUnprocessableEntity},
		"empty title":       {`{"title":" ","description":"d"}`, http.StatusUnprocessableEntity},
		"empty description": {`{"title":"t","description":""}`, http.StatusUnprocessableEntity},
		"long title":        {`{"title":"` + strings.Repeat("x", 201) + `","description":"d"}`, http.StatusUnprocessableEntity},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/ideas", tc.body)
			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}
			var body map[string]string
			json.NewDecoder(resp.Body).Decode(&body)
			if body["error"] == "" {
				t.Fatalf("expected error message")
			}
		})
	}
}

func TestLikeAndDelete_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/ideas/missing/like", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for like, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/ideas/missing", nil)
	del, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	defer del.Body.Close()
	if del.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for delete, got %d", del.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/ideas/1", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(resp.Header.Get("Access-Control-Allow-Methods"), "DELETE") {
		t.Fatalf("unexpected preflight: %d %q", resp.StatusCode, resp.Header.Get("Access-Control-Allow-Methods"))
	}
}

func TestRequestLogging(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "ideas.db"))
	if err != nil {
		t.Fatalf("store.New error: %v", err)
	}
	defer s.Close()

	var buf bytes.Buffer
	h := New(s, "", slog.New(slog.NewTextHandler(&buf, nil))).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ideas/nope/like", nil))

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "status=404") || !strings.Contains(out, "request_id=") {
		t.Fatalf("unexpected log line: %s", out)
	}
}

// The controller driving a headless document against the real server
func TestControllerRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	doc := dom.New(func(string) bool { return true })
	c := controller.New(remote.New(srv.URL, nil), doc, nil)
	c.Bootstrap(ctx)

	if entries, _ := doc.Entries(); len(entries) != 0 {
		t.Fatalf("expected empty list, got %d", len(entries))
	}

	doc.SetField(controller.FieldTitle, "<b>Bold</b> idea")
	doc.SetField(controller.FieldDescription, "Tom & Jerry's")
	doc.SetField(controller.FieldTags, "a, b ,,c")
	if err := doc.Submit(ctx); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	entries, err := doc.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d (alerts %v)", len(entries), doc.Alerts())
	}
	e := entries[0]
	if e.Title != "<b>Bold</b> idea" || e.Description != "Tom & Jerry's" || strings.Join(e.Tags, ",") != "a,b,c" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if strings.Contains(doc.List(), "<b>") {
		t.Fatalf("raw markup reached the list: %s", doc.List())
	}

	if err := doc.Click(ctx, render.AttrLike, e.LikeID); err != nil {
		t.Fatalf("Click like: %v", err)
	}
	entries, _ = doc.Entries()
	if entries[0].Likes != 1 {
		t.Fatalf("expected 1 like, got %d", entries[0].Likes)
	}

	if err := doc.Click(ctx, render.AttrDelete, e.DeleteID); err != nil {
		t.Fatalf("Click delete: %v", err)
	}
	if entries, _ = doc.Entries(); len(entries) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(entries))
	}

	// Server-side validation surfaces as an alert with the status code
	if err := doc.Submit(ctx); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	alerts := doc.Alerts()
	if len(alerts) != 1 || !strings.Contains(alerts[0], "HTTP 422") {
		t.Fatalf("expected 422 alert, got %v", alerts)
	}
}
