package router

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/IrinaBBB/TaskBoard/internal/http/docs"
	"github.com/IrinaBBB/TaskBoard/internal/http/handlers"
	"github.com/IrinaBBB/TaskBoard/internal/http/middleware"
	"github.com/IrinaBBB/TaskBoard/internal/http/web"
	"github.com/IrinaBBB/TaskBoard/internal/logging"
)

type Options struct {
	// APIPrefix without trailing slash; "" mounts the API at the root.
	APIPrefix  string
	CORSOrigin string
	// DocsPath enables the OpenAPI document and UI when Docs is set.
	DocsPath string
	Docs     *docs.Docs
	Export   *handlers.ExportHandler
	// Client is served at / when set and the API is not mounted at the root.
	Client *web.Client
	Logger *log.Logger
}

func New(handler *handlers.TaskHandler, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.AccessLog(logger),
		middleware.Recovery(logger),
		middleware.CORS(opts.CORSOrigin),
	)

	api := engine.Group(opts.APIPrefix)
	if opts.APIPrefix != "" {
		api.GET("", handler.Index)
	}
	api.GET("/", handler.Index)
	api.GET("/tasks", handler.List)
	api.POST("/tasks", handler.Create)
	api.GET("/tasks/:id", handler.Get)
	api.PUT("/tasks/:id", handler.Update)
	api.DELETE("/tasks/:id", handler.Delete)

	if opts.Docs != nil && opts.DocsPath != "" {
		engine.GET(opts.DocsPath, opts.Docs.UI)
		engine.GET(docs.SpecPath(opts.DocsPath), opts.Docs.Spec)
	}
	if opts.Export != nil {
		engine.GET("/exports/tasks", opts.Export.Tasks)
	}
	if opts.Client != nil && opts.APIPrefix != "" {
		engine.GET("/", opts.Client.Index)
	}

	engine.NoRoute(handlers.NotFound)

	return trimTrailingSlash(engine)
}

// trimTrailingSlash serves "/api/tasks/" as "/api/tasks" instead of
// letting gin redirect.
func trimTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := r.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
			r.URL.Path = strings.TrimRight(p, "/")
			if r.URL.Path == "" {
				r.URL.Path = "/"
			}
			r.URL.RawPath = ""
		}
		next.ServeHTTP(w, r)
	})
}
