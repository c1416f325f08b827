// Package docs serves the OpenAPI description of the task API and a
// Swagger UI page for it.
package docs

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed openapi.json
var openAPIJSON []byte

const uiTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Task API docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({ url: {{.SpecURL}}, dom_id: "#swagger-ui" });
  </script>
</body>
</html>
`

type Docs struct {
	spec []byte
	ui   []byte
}

// New renders the document for the given API prefix and docs mount path.
func New(apiPrefix, docsPath string) (*Docs, error) {
	var doc map[string]any
	if err := json.Unmarshal(openAPIJSON, &doc); err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}

	server := apiPrefix
	if server == "" {
		server = "/"
	}
	doc["servers"] = []map[string]string{{"url": server}}

	spec, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal openapi document: %w", err)
	}

	tmpl, err := template.New("ui").Parse(uiTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse docs template: %w", err)
	}
	var ui bytes.Buffer
	if err := tmpl.Execute(&ui, struct{ SpecURL string }{SpecURL: SpecPath(docsPath)}); err != nil {
		return nil, fmt.Errorf("render docs page: %w", err)
	}

	return &Docs{spec: spec, ui: ui.Bytes()}, nil
}

func SpecPath(docsPath string) string {
	return docsPath + "/openapi.json"
}

func (d *Docs) Spec(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", d.spec)
}

func (d *Docs) UI(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", d.ui)
}
