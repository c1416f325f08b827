package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	approuter "github.com/IrinaBBB/TaskBoard/internal/http"
	"github.com/IrinaBBB/TaskBoard/internal/export"
	"github.com/IrinaBBB/TaskBoard/internal/http/docs"
	"github.com/IrinaBBB/TaskBoard/internal/http/handlers"
	"github.com/IrinaBBB/TaskBoard/internal/http/middleware"
	"github.com/IrinaBBB/TaskBoard/internal/http/web"
	"github.com/IrinaBBB/TaskBoard/internal/logging"
	"github.com/IrinaBBB/TaskBoard/internal/service"
	"github.com/IrinaBBB/TaskBoard/internal/store/file"
)

const origin = "http://localhost:5173"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newFileApp wires the whole stack against a tasks file in a temp dir.
func newFileApp(t *testing.T, content string) (http.Handler, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tasks.json")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile() err=%v", err)
		}
	}

	st, err := file.New(path)
	if err != nil {
		t.Fatalf("file.New() err=%v", err)
	}
	svc, err := service.New(st, nil)
	if err != nil {
		t.Fatalf("service.New() err=%v", err)
	}
	d, err := docs.New("/api", "/api-docs")
	if err != nil {
		t.Fatalf("docs.New() err=%v", err)
	}
	client, err := web.New("/api")
	if err != nil {
		t.Fatalf("web.New() err=%v", err)
	}

	app := approuter.New(handlers.New(svc), approuter.Options{
		APIPrefix:  "/api",
		CORSOrigin: origin,
		DocsPath:   "/api-docs",
		Docs:       d,
		Export:     handlers.NewExport(export.NewExporter(svc)),
		Client:     client,
	})
	return app, path
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func readTasksFile(t *testing.T, path string) []map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() err=%v", err)
	}
	var out []map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("tasks file is not a json array: %v", err)
	}
	return out
}

const seed = `[
  {"id": 1, "title": "Task 1", "description": "Description 1"},
  {"id": 2, "title": "Task 2", "description": "Description 2"}
]`

func TestFileStore_EndToEnd(t *testing.T) {
	app, path := newFileApp(t, seed)

	body := bytes.NewBufferString(`{"title":"New Task","description":"This is a new task."}`)
	rr := do(t, app, httptest.NewRequest(http.MethodPost, "/api/tasks", body))
	if rr.Code != http.StatusCreated {
		t.Fatalf("POST status=%d body=%s", rr.Code, rr.Body.String())
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"id":3,"title":"New Task","description":"This is a new task."}` {
		t.Fatalf("POST body=%s", got)
	}
	if n := len(readTasksFile(t, path)); n != 3 {
		t.Fatalf("file len=%d, want 3", n)
	}

	rr = do(t, app, httptest.NewRequest(http.MethodPut, "/api/tasks/2", bytes.NewBufferString(`{"title":"Updated Title"}`)))
	if got := strings.TrimSpace(rr.Body.String()); got != `{"id":2,"title":"Updated Title","description":"Description 2"}` {
		t.Fatalf("PUT status=%d body=%s", rr.Code, got)
	}

	rr = do(t, app, httptest.NewRequest(http.MethodDelete, "/api/tasks/1", nil))
	if got := strings.TrimSpace(rr.Body.String()); rr.Code != http.StatusOK || got != `{"message":"Task deleted successfully."}` {
		t.Fatalf("DELETE status=%d body=%s", rr.Code, got)
	}

	tasks := readTasksFile(t, path)
	if len(tasks) != 2 || tasks[0]["id"] != float64(2) || tasks[1]["id"] != float64(3) {
		t.Fatalf("file=%v, want ids [2 3]", tasks)
	}
	if tasks[0]["title"] != "Updated Title" {
		t.Fatalf("file[0].title=%v, want %q", tasks[0]["title"], "Updated Title")
	}
}

func TestFileStore_DeleteMissingLeavesFile(t *testing.T) {
	app, path := newFileApp(t, seed)
	before, _ := os.ReadFile(path)

	rr := do(t, app, httptest.NewRequest(http.MethodDelete, "/api/tasks/999", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want %d", rr.Code, http.StatusNotFound)
	}

	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Fatalf("file changed:\n%s\nwant:\n%s", after, before)
	}
}

func TestFileStore_MalformedFileReadsEmpty(t *testing.T) {
	app, _ := newFileApp(t, `{"broken"`)

	rr := do(t, app, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("status=%d body=%s, want 200 []", rr.Code, rr.Body.String())
	}
}

func TestFileStore_MissingFileCreatedOnFirstPost(t *testing.T) {
	app, path := newFileApp(t, "")

	rr := do(t, app, httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString(`{"title":"a","description":"b"}`)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if tasks := readTasksFile(t, path); len(tasks) != 1 || tasks[0]["id"] != float64(1) {
		t.Fatalf("file=%v, want one task with id 1", tasks)
	}
}

func TestCORS_PreflightAllowedOrigin(t *testing.T) {
	app, _ := newFileApp(t, seed)

	req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	rr := do(t, app, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status=%d, want %d", rr.Code, http.StatusNoContent)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != origin {
		t.Fatalf("Allow-Origin=%q, want %q", got, origin)
	}
	methods := rr.Header().Get("Access-Control-Allow-Methods")
	for _, m := range []string{"GET", "POST", "PUT", "DELETE"} {
		if !strings.Contains(methods, m) {
			t.Fatalf("Allow-Methods=%q, missing %s", methods, m)
		}
	}
	headers := rr.Header().Get("Access-Control-Allow-Headers")
	for _, h := range []string{"Content-Type", "Authorization"} {
		if !strings.Contains(headers, h) {
			t.Fatalf("Allow-Headers=%q, missing %s", headers, h)
		}
	}
}

func TestCORS_SimpleRequestAllowedOrigin(t *testing.T) {
	app, _ := newFileApp(t, seed)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Origin", origin)

	rr := do(t, app, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != origin {
		t.Fatalf("Allow-Origin=%q, want %q", got, origin)
	}
}

func TestCORS_OtherOriginPreflightRefused(t *testing.T) {
	app, _ := newFileApp(t, seed)

	req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)

	rr := do(t, app, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status=%d, want %d", rr.Code, http.StatusForbidden)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("Allow-Origin=%q, want empty", got)
	}
}

func TestCORS_OtherOriginStillServed(t *testing.T) {
	app, _ := newFileApp(t, seed)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Origin", "http://other.example")
	rr := do(t, app, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", rr.Code, http.StatusOK)
	}
	var tasks []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &tasks); err != nil || len(tasks) != 2 {
		t.Fatalf("body=%s, want the two tasks (err=%v)", rr.Body.String(), err)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("Allow-Origin=%q, want empty", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/unknown-route", nil)
	req.Header.Set("Origin", "http://other.example")
	rr = do(t, app, req)
	if rr.Code != http.StatusNotFound || rr.Body.String() != "Not Found" {
		t.Fatalf("status=%d body=%q, want 404 Not Found", rr.Code, rr.Body.String())
	}
}

func TestTrailingSlashServedDirectly(t *testing.T) {
	app, _ := newFileApp(t, seed)

	rr := do(t, app, httptest.NewRequest(http.MethodGet, "/api/tasks/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /api/tasks/ status=%d loc=%q, want %d", rr.Code, rr.Header().Get("Location"), http.StatusOK)
	}

	rr = do(t, app, httptest.NewRequest(http.MethodGet, "/api/tasks/1/", nil))
	if got := strings.TrimSpace(rr.Body.String()); rr.Code != http.StatusOK || got != `{"id":1,"title":"Task 1","description":"Description 1"}` {
		t.Fatalf("GET /api/tasks/1/ status=%d body=%s", rr.Code, got)
	}

	body := bytes.NewBufferString(`{"title":"a","description":"b"}`)
	rr = do(t, app, httptest.NewRequest(http.MethodPost, "/api/tasks/", body))
	if rr.Code != http.StatusCreated {
		t.Fatalf("POST /api/tasks/ status=%d, want %d", rr.Code, http.StatusCreated)
	}
}

func TestRequestID(t *testing.T) {
	app, _ := newFileApp(t, seed)

	rr := do(t, app, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	generated := rr.Header().Get(middleware.RequestIDHeader)
	if _, err := uuid.Parse(generated); err != nil {
		t.Fatalf("X-Request-ID=%q is not a uuid: %v", generated, err)
	}

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	req.Header.Set(middleware.RequestIDHeader, incoming)
	rr = do(t, app, req)
	if got := rr.Header().Get(middleware.RequestIDHeader); got != incoming {
		t.Fatalf("X-Request-ID=%q, want echoed %q", got, incoming)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set(middleware.RequestIDHeader, "not-a-uuid")
	rr = do(t, app, req)
	if got := rr.Header().Get(middleware.RequestIDHeader); got == "not-a-uuid" {
		t.Fatal("X-Request-ID echoed an invalid id")
	}
}

func TestDocs(t *testing.T) {
	app, _ := newFileApp(t, seed)

	rr := do(t, app, httptest.NewRequest(http.MethodGet, "/api-docs/openapi.json", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", rr.Code, http.StatusOK)
	}

	var doc struct {
		OpenAPI string `json:"openapi"`
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
		Paths map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("openapi.json is not json: %v", err)
	}
	if len(doc.Servers) != 1 || doc.Servers[0].URL != "/api" {
		t.Fatalf("servers=%+v, want [/api]", doc.Servers)
	}
	for _, p := range []string{"/", "/tasks", "/tasks/{id}"} {
		if _, ok := doc.Paths[p]; !ok {
			t.Fatalf("paths lack %s", p)
		}
	}

	rr = do(t, app, httptest.NewRequest(http.MethodGet, "/api-docs", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "swagger-ui") {
		t.Fatalf("docs page status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `openapi.json`) {
		t.Fatal("docs page does not reference openapi.json")
	}
}

func TestClientPage(t *testing.T) {
	app, _ := newFileApp(t, seed)

	rr := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content-type=%q, want text/html", ct)
	}
	if !strings.Contains(rr.Body.String(), "Task Board") {
		t.Fatal("client page lacks title")
	}
}

func TestExport(t *testing.T) {
	app, _ := newFileApp(t, seed)

	rr := do(t, app, httptest.NewRequest(http.MethodGet, "/exports/tasks?format=csv", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content-type=%q, want text/csv", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "tasks.csv") {
		t.Fatalf("content-disposition=%q", cd)
	}
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	if len(lines) != 3 || lines[0] != "id,title,description" {
		t.Fatalf("csv=%q", rr.Body.String())
	}

	rr = do(t, app, httptest.NewRequest(http.MethodGet, "/exports/tasks", nil))
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("default export status=%d content-type=%q", rr.Code, rr.Header().Get("Content-Type"))
	}

	rr = do(t, app, httptest.NewRequest(http.MethodGet, "/exports/tasks?format=pdf", nil))
	if rr.Code != http.StatusOK || !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("pdf export status=%d", rr.Code)
	}

	rr = do(t, app, httptest.NewRequest(http.MethodGet, "/exports/tasks?format=xlsx", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestRootPrefix(t *testing.T) {
	st, err := file.New(filepath.Join(t.TempDir(), "tasks.json"))
	if err != nil {
		t.Fatalf("file.New() err=%v", err)
	}
	svc, _ := service.New(st, nil)
	app := approuter.New(handlers.New(svc), approuter.Options{CORSOrigin: origin})

	rr := do(t, app, httptest.NewRequest(http.MethodGet, "/tasks", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /tasks status=%d, want %d", rr.Code, http.StatusOK)
	}
	rr = do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Welcome") {
		t.Fatalf("GET / status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.Recovery(logging.Discard()))
	engine.GET("/panic", func(*gin.Context) { panic("boom") })

	rr := do(t, engine, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rr.Body.String(), "internal server error") {
		t.Fatalf("body=%s", rr.Body.String())
	}
}
