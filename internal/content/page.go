// Package content serves the storefront's static policy pages.
package content

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Page is a rendered policy page.
type Page struct {
	Slug    string    `json:"slug"`
	Title   string    `json:"title"`
	Updated time.Time `json:"updated,omitempty"`
	Body    string    `json:"body"`
}

// Loader reads a single page source by name.
type Loader interface {
	Load(ctx context.Context, name string) (*Page, error)
}

type frontMatter struct {
	Title   string    `yaml:"title"`
	Updated time.Time `yaml:"updated"`
}

var delimiter = []byte("---")

// Parse splits a markdown document into its YAML front matter and body.
// Documents without front matter are returned with the slug as title.
func Parse(slug string, data []byte) (*Page, error) {
	page := &Page{Slug: slug, Title: slug}

	trimmed := bytes.TrimLeft(data, "\ufeff \t\r\n")
	if !bytes.HasPrefix(trimmed, delimiter) {
		page.Body = string(bytes.TrimSpace(data))
		return page, nil
	}

	rest := trimmed[len(delimiter):]
	end := bytes.Index(rest, append([]byte("\n"), delimiter...))
	if end < 0 {
		return nil, fmt.Errorf("page %s: unterminated front matter", slug)
	}

	var meta frontMatter
	if err := yaml.Unmarshal(rest[:end], &meta); err != nil {
		return nil, fmt.Errorf("page %s: invalid front matter: %w", slug, err)
	}
	if meta.Title != "" {
		page.Title = meta.Title
	}
	page.Updated = meta.Updated
	page.Body = string(bytes.TrimSpace(rest[end+1+len(delimiter):]))

	return page, nil
}
