package pull

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/toothbrush/md2conf/confluence"
)

// Client is the part of the Confluence API a pull needs.
type Client interface {
	GetPage(ctx context.Context, title string) (confluence.PageInfo, error)
	GetPageByID(ctx context.Context, opts confluence.GetPageByIDQuery) (*confluence.Page, error)
	GetUserByID(ctx context.Context, opts confluence.GetUserByIDQuery) (*confluence.User, error)
}

type Puller struct {
	Client  Client
	BaseURI *url.URL
	// Space the page lives in, recorded in the header.
	SpaceKey string

	Logger *log.Logger
}

func (p *Puller) logger() *log.Logger {
	if p.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return p.Logger
}

// Pull fetches the page called title and converts it.
func (p *Puller) Pull(ctx context.Context, title string) (Document, error) {
	info, err := p.lookup(ctx, title)
	if err != nil {
		return Document{}, err
	}
	return p.fetch(ctx, info)
}

// PullFile pulls the page called title into path. A file that already holds
// the current version of the page is left alone unless force is set. The
// returned bool tells whether path was written.
func (p *Puller) PullFile(ctx context.Context, title, path string, force bool) (bool, error) {
	info, err := p.lookup(ctx, title)
	if err != nil {
		return false, err
	}

	if !force {
		recent, err := UpToDate(path, info)
		if err != nil {
			return false, err
		}
		if recent {
			p.logger().Printf("%s already has version %d of %q, skipping", path, info.Version, title)
			return false, nil
		}
	}

	doc, err := p.fetch(ctx, info)
	if err != nil {
		return false, err
	}
	if err := Write(path, doc); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Puller) lookup(ctx context.Context, title string) (confluence.PageInfo, error) {
	info, err := p.Client.GetPage(ctx, title)
	if err != nil {
		return confluence.PageInfo{}, fmt.Errorf("pull: looking up page: %w", err)
	}
	if info.ID == 0 {
		return confluence.PageInfo{}, fmt.Errorf("pull: %w: page %q", confluence.ErrNotFound, title)
	}
	return info, nil
}

func (p *Puller) fetch(ctx context.Context, info confluence.PageInfo) (Document, error) {
	page, err := p.Client.GetPageByID(ctx, confluence.GetPageByIDQuery{ID: info.ID, BodyFormat: "view"})
	if err != nil {
		return Document{}, fmt.Errorf("pull: fetching page %d: %w", info.ID, err)
	}

	doc, err := Convert(page, p.BaseURI)
	if err != nil {
		return Document{}, err
	}
	doc.Header.Space = p.SpaceKey

	if page.AuthorID != "" {
		author, err := p.Client.GetUserByID(ctx, confluence.GetUserByIDQuery{ID: page.AuthorID})
		if err != nil {
			p.logger().Printf("couldn't look up author %s: %v", page.AuthorID, err)
		} else {
			doc.Header.Author = fmt.Sprintf("%s <%s>", author.DisplayName, author.Email)
		}
	}

	return doc, nil
}

// Write stores a document at path, creating parent directories. A leading ~
// is expanded to the home directory.
func Write(path string, doc Document) error {
	abs, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("pull: couldn't expand %s: %w", path, err)
	}

	content, err := doc.Render()
	if err != nil {
		return err
	}

	directory := filepath.Dir(abs)
	if err = os.MkdirAll(directory, 0750); err != nil {
		return fmt.Errorf("pull: couldn't create directory %s: %w", directory, err)
	}

	f, err := os.Create(abs)
	if err != nil {
		return fmt.Errorf("pull: couldn't create file %s: %w", abs, err)
	}
	defer f.Close()

	if _, err = f.WriteString(content); err != nil {
		return fmt.Errorf("pull: couldn't write to file %s: %w", abs, err)
	}

	return nil
}
