// Package pull downloads a published page and turns it back into Markdown
// with a YAML front matter header.
package pull

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	mdplugin "github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"

	"github.com/toothbrush/md2conf/confluence"
)

// Header is the front matter written above pulled Markdown.
type Header struct {
	Title     string    `yaml:"title"`
	Timestamp time.Time `yaml:"timestamp"`
	Version   int       `yaml:"version"`
	ObjectID  int       `yaml:"object_id"`
	URI       string    `yaml:"uri"`
	Status    string    `yaml:"status"`
	Space     string    `yaml:"space,omitempty"`
	Author    string    `yaml:"author,omitempty"`
}

// Document is a pulled page.
type Document struct {
	Header   Header
	Markdown string
}

// Render lays out the header as YAML front matter followed by the Markdown.
func (d Document) Render() (string, error) {
	yamlHeader, err := yaml.Marshal(d.Header)
	if err != nil {
		return "", fmt.Errorf("pull: couldn't marshal header YAML: %w", err)
	}

	return fmt.Sprintf("---\n%s\n---\n%s\n",
		strings.TrimSpace(string(yamlHeader)),
		d.Markdown), nil
}

// markdownConverter renders view HTML with links made absolute against base.
// md.NewConverter only takes a host name, so the scheme is patched in by
// GetAbsoluteURL.
func markdownConverter(base *url.URL) *md.Converter {
	opt := &md.Options{
		GetAbsoluteURL: func(selec *goquery.Selection, rawURL string, domain string) string {
			if domain == "" {
				return rawURL
			}

			u, err := url.Parse(rawURL)
			if err != nil {
				return rawURL
			}

			// inline images and the like
			if u.Scheme == "data" {
				return rawURL
			}

			if u.Scheme == "" {
				u.Scheme = base.Scheme
			}
			if u.Host == "" {
				u.Host = domain
			}

			return u.String()
		},
	}

	converter := md.NewConverter(base.Host, true, opt)
	// Github flavoured Markdown knows about tables
	converter.Use(mdplugin.GitHubFlavored())
	return converter
}

// Convert turns a page fetched with body-format=view into a Document.
func Convert(page *confluence.Page, base *url.URL) (Document, error) {
	if page.Body.View == nil {
		return Document{}, fmt.Errorf("pull: found nil .Body.View field for page %s", page.ID)
	}

	markdown, err := markdownConverter(base).ConvertString(page.Body.View.Value)
	if err != nil {
		return Document{}, fmt.Errorf("pull: failed to convert to Markdown: %w", err)
	}

	id, err := strconv.Atoi(page.ID)
	if err != nil {
		return Document{}, fmt.Errorf("pull: page ID %s not an int: %w", page.ID, err)
	}
	if page.Version == nil {
		return Document{}, fmt.Errorf("pull: found nil .Version field for page %s", page.ID)
	}

	header := Header{
		Title:    page.Title,
		Version:  page.Version.Number,
		ObjectID: id,
		URI:      strings.TrimSuffix(base.String(), "/") + page.Links.WebUI,
		Status:   page.Status,
	}
	if page.Version.CreatedAt != "" {
		header.Timestamp, err = time.Parse(time.RFC3339, page.Version.CreatedAt)
		if err != nil {
			return Document{}, fmt.Errorf("pull: couldn't parse timestamp %s: %w", page.Version.CreatedAt, err)
		}
	}

	return Document{Header: header, Markdown: markdown}, nil
}
