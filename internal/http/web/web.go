// Package web serves the single page task board client.
package web

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed index.html
var indexHTML string

type Client struct {
	page []byte
}

// New renders the page against the API mounted at apiPrefix.
func New(apiPrefix string) (*Client, error) {
	tmpl, err := template.New("index").Parse(indexHTML)
	if err != nil {
		return nil, fmt.Errorf("parse client page: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ APIPrefix string }{APIPrefix: apiPrefix}); err != nil {
		return nil, fmt.Errorf("render client page: %w", err)
	}

	return &Client{page: buf.Bytes()}, nil
}

func (cl *Client) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", cl.page)
}
