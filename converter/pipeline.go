// Package converter turns Markdown into Confluence storage format.
//
// Markdown is rendered to XHTML with goldmark, then an ordered list of text
// passes rewrites the parts Confluence expresses with macros: tables of
// contents, admonitions, comments, code blocks and footnotes. Links between
// headings of the same page are resolved separately by Resolver, once the
// page ID is known.
package converter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/yuin/goldmark"
)

// Options toggles the optional passes.
type Options struct {
	RemoveEmojis bool
	AddContents  bool
}

// Stage is one named pass over the HTML.
type Stage struct {
	Name  string
	Apply func(html string) (string, error)
}

func infallible(name string, fn func(string) string) Stage {
	return Stage{
		Name: name,
		Apply: func(html string) (string, error) {
			return fn(html), nil
		},
	}
}

// Stages lists the passes in the order they must run. Later passes rely on
// earlier ones: code blocks are converted after comments so that a literal
// "<!--" inside code stays escaped, and footnotes go last so the links they
// produce are never touched again.
func Stages(opts Options) []Stage {
	stages := []Stage{
		infallible("toc", ConvertTableOfContents),
		infallible("info-macros", ConvertInfoMacros),
		infallible("comments", ConvertComments),
		infallible("code-blocks", ConvertCodeBlocks),
	}
	if opts.RemoveEmojis {
		stages = append(stages, infallible("emoji", RemoveEmojis))
	}
	if opts.AddContents {
		stages = append(stages, infallible("contents", AddContents))
	}
	return append(stages, Stage{Name: "footnotes", Apply: ConvertFootnotes})
}

// Run applies stages in order.
func Run(ctx context.Context, html string, stages []Stage) (string, error) {
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		out, err := s.Apply(html)
		if err != nil {
			return "", fmt.Errorf("converter: %s: %w", s.Name, err)
		}
		html = out
	}
	return html, nil
}

// Converter renders Markdown documents to storage format.
type Converter struct {
	Options Options
	Logger  *log.Logger

	md goldmark.Markdown
}

func New(opts Options, logger *log.Logger) *Converter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Converter{
		Options: opts,
		Logger:  logger,
		md:      newMarkdown(),
	}
}

// Render converts Markdown to plain XHTML.
func (c *Converter) Render(ctx context.Context, markdown []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := c.md.Convert(markdown, &buf); err != nil {
		return "", fmt.Errorf("converter: rendering markdown: %w", err)
	}
	return buf.String(), nil
}

// Convert renders markdown and runs every pass over it. When hasTitle is false
// the first line of the document is the page title and is left out of the
// body.
func (c *Converter) Convert(ctx context.Context, markdown []byte, hasTitle bool) (string, error) {
	out, err := c.Render(ctx, markdown)
	if err != nil {
		return "", err
	}
	if !hasTitle {
		if _, rest, ok := strings.Cut(out, "\n"); ok {
			out = rest
		} else {
			out = ""
		}
	}

	c.Logger.Printf("html before post-processing:\n%s", out)

	return Run(ctx, out, Stages(c.Options))
}

// TitleFromMarkdown reads the page title from the first line of a document,
// without its heading markers.
func TitleFromMarkdown(markdown []byte) string {
	line, _, _ := bytes.Cut(markdown, []byte("\n"))
	return strings.TrimSpace(strings.TrimLeft(string(line), "#"))
}
