// Package publish pushes a Markdown document to Confluence: it converts the
// file, creates or updates the page, uploads images and attachments, and sets
// labels and content properties.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/toothbrush/md2conf/confluence"
	"github.com/toothbrush/md2conf/converter"
)

// ErrImageSource is returned for an <img> tag without a src attribute.
var ErrImageSource = errors.New("publish: image without src")

// Client is the part of the Confluence API a publish needs.
type Client interface {
	URL() string
	GetPage(ctx context.Context, title string) (confluence.PageInfo, error)
	GetFolder(ctx context.Context, name string) (int, error)
	CreatePage(ctx context.Context, title, body string, parentID int) (confluence.PageInfo, error)
	UpdatePage(ctx context.Context, id int, title, body string, version int, parentID int) error
	DeletePage(ctx context.Context, id int) error
	UploadAttachment(ctx context.Context, pageID int, path, comment string) (bool, error)
	GetPageProperties(ctx context.Context, pageID int) ([]confluence.Property, error)
	UpdatePageProperty(ctx context.Context, pageID int, prop confluence.PropertyUpdate) error
	UpdateLabels(ctx context.Context, pageID int, labels []string) error
}

// Options describe one publish run.
type Options struct {
	// Markdown file to publish.
	File string
	// Page title. Empty means the first line of File.
	Title    string
	SpaceKey string
	// Title of the parent page or folder.
	Ancestor string

	// Paths relative to File's folder.
	Attachments []string
	Labels      []string
	Properties  map[string]string

	Simulate     bool
	Delete       bool
	RemoveEmojis bool
	AddContents  bool

	Editor converter.EditorVersion
	Source converter.MarkdownSource
}

type Publisher struct {
	Client  Client
	Workers int

	Logger *log.Logger
	// Where simulate mode prints the converted page.
	Out io.Writer
	// Where upload progress is drawn; nil draws nothing.
	Progress io.Writer
}

func (p *Publisher) logger() *log.Logger {
	if p.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return p.Logger
}

func (p *Publisher) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Publish converts opts.File and brings the Confluence page in line with it.
func (p *Publisher) Publish(ctx context.Context, opts Options) error {
	if opts.Editor == 0 {
		opts.Editor = converter.EditorV2
	}
	if opts.Source == "" {
		opts.Source = converter.SourceDefault
	}

	markdown, err := os.ReadFile(opts.File)
	if err != nil {
		return fmt.Errorf("publish: reading markdown: %w", err)
	}

	title, hasTitle := opts.Title, opts.Title != ""
	if !hasTitle {
		title = converter.TitleFromMarkdown(markdown)
	}
	if title == "" {
		return fmt.Errorf("publish: %s has no title", opts.File)
	}

	conv := converter.New(converter.Options{
		RemoveEmojis: opts.RemoveEmojis,
		AddContents:  opts.AddContents,
	}, p.Logger)
	html, err := conv.Convert(ctx, markdown, hasTitle)
	if err != nil {
		return fmt.Errorf("publish: converting %s: %w", opts.File, err)
	}

	if opts.Simulate {
		p.logger().Println("simulate mode is active, stopping here")
		if p.Out != nil {
			fmt.Fprintln(p.Out, html)
		}
		return nil
	}

	p.logger().Printf("checking if page %q exists...", title)
	page, err := p.Client.GetPage(ctx, title)
	if err != nil {
		return fmt.Errorf("publish: looking up page: %w", err)
	}

	if opts.Delete {
		if page.ID == 0 {
			p.logger().Printf("warning: page %q doesn't exist, nothing to delete", title)
			return nil
		}
		if err := p.Client.DeletePage(ctx, page.ID); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
		return nil
	}

	parentID, err := p.parentID(ctx, opts.Ancestor)
	if err != nil {
		return err
	}

	if page.ID == 0 {
		if page, err = p.Client.CreatePage(ctx, title, html, parentID); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
	}
	p.logger().Printf("page id %d", page.ID)

	sourceDir := filepath.Dir(opts.File)

	html, err = p.addImages(ctx, page.ID, sourceDir, html)
	if err != nil {
		return err
	}

	resolver := converter.Resolver{APIURL: p.Client.URL(), Editor: opts.Editor, Logger: p.Logger}
	html = resolver.ResolveLocalRefs(html, opts.Source, opts.SpaceKey, page.ID, title)

	if err := p.Client.UpdatePage(ctx, page.ID, title, html, page.Version, parentID); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	if err := p.updateProperties(ctx, page.ID, opts); err != nil {
		return err
	}

	if len(opts.Labels) > 0 {
		if err := p.Client.UpdateLabels(ctx, page.ID, opts.Labels); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
	}

	if len(opts.Attachments) > 0 {
		files := make([]upload, 0, len(opts.Attachments))
		for _, a := range opts.Attachments {
			files = append(files, upload{path: filepath.Join(sourceDir, a)})
		}
		if _, err := p.uploadAll(ctx, page.ID, "attachments", files); err != nil {
			return err
		}
	}

	p.logger().Printf("published %q (page %d)", title, page.ID)
	return nil
}

// parentID resolves the ancestor title to a page, or failing that a folder.
// An ancestor that can't be found leaves the page at the top of the space.
func (p *Publisher) parentID(ctx context.Context, ancestor string) (int, error) {
	if ancestor == "" {
		return 0, nil
	}

	parent, err := p.Client.GetPage(ctx, ancestor)
	if err != nil {
		return 0, fmt.Errorf("publish: looking up parent page: %w", err)
	}
	if parent.ID > 0 {
		return parent.ID, nil
	}

	folder, err := p.Client.GetFolder(ctx, ancestor)
	if err != nil {
		return 0, fmt.Errorf("publish: looking up parent folder: %w", err)
	}
	if folder == 0 {
		p.logger().Printf("error: parent page/folder does not exist: %s", ancestor)
	}
	return folder, nil
}
