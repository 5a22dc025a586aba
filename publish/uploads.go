package publish

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/sync/errgroup"
)

type upload struct {
	path    string
	comment string
}

type image struct {
	src string
	alt string
}

func isRemote(src string) bool {
	return strings.Contains(src, "http")
}

// images lists the <img> tags of html, each source once, in document order.
func images(html string) ([]image, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("publish: parsing html: %w", err)
	}

	var (
		found []image
		seen  = map[string]bool{}
		bad   error
	)
	doc.Find("img").EachWithBreak(func(i int, s *goquery.Selection) bool {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			bad = fmt.Errorf("%w: image %d", ErrImageSource, i+1)
			return false
		}
		if seen[src] {
			return true
		}
		seen[src] = true
		alt, _ := s.Attr("alt")
		found = append(found, image{src: src, alt: alt})
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return found, nil
}

// attachmentURL is where Confluence serves an attachment of a page.
func attachmentURL(baseURL string, pageID int, file string) string {
	prefix := "/download/attachments"
	if strings.HasSuffix(baseURL, "/wiki") {
		prefix = "/wiki/download/attachments"
	}
	return fmt.Sprintf("%s/%d/%s", prefix, pageID, filepath.Base(file))
}

// addImages uploads the local images of html as attachments and points their
// tags at the uploaded copies.
func (p *Publisher) addImages(ctx context.Context, pageID int, sourceDir, html string) (string, error) {
	imgs, err := images(html)
	if err != nil {
		return "", err
	}

	var local []image
	var files []upload
	for _, img := range imgs {
		if isRemote(img.src) {
			continue
		}
		// goldmark percent-encodes destinations; the file on disk isn't.
		name, err := url.PathUnescape(img.src)
		if err != nil {
			name = img.src
		}
		local = append(local, img)
		files = append(files, upload{path: filepath.Join(sourceDir, filepath.FromSlash(name)), comment: img.alt})
	}
	if len(files) == 0 {
		return html, nil
	}

	uploaded, err := p.uploadAll(ctx, pageID, "images", files)
	if err != nil {
		return "", err
	}

	base := p.Client.URL()
	for i, img := range local {
		if !uploaded[i] {
			continue
		}
		html = strings.ReplaceAll(html,
			`src="`+img.src+`"`,
			`src="`+attachmentURL(base, pageID, img.src)+`"`)
	}
	return html, nil
}

// uploadAll attaches files to a page using up to Workers parallel uploads.
// uploaded[i] tells whether files[i] was sent; skipped files are false.
func (p *Publisher) uploadAll(ctx context.Context, pageID int, phaseName string, files []upload) (uploaded []bool, err error) {
	out := p.Progress
	if out == nil {
		out = io.Discard
	}
	progress := mpb.NewWithContext(ctx, mpb.WithOutput(out), mpb.WithWidth(64))
	bar := progress.AddBar(int64(len(files)),
		mpb.PrependDecorators(
			decor.Name(fmt.Sprintf("%s:", phaseName),
				decor.WC{C: decor.DindentRight | decor.DextraSpace}),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d/%d) "),
			decor.NewPercentage("%d"),
		),
	)

	uploaded = make([]bool, len(files))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(p.workers())
	for i, f := range files {
		i, f := i, f
		grp.Go(func() error {
			defer bar.Increment()
			ok, err := p.Client.UploadAttachment(gctx, pageID, f.path, f.comment)
			if err != nil {
				return fmt.Errorf("publish: uploading %s: %w", f.path, err)
			}
			uploaded[i] = ok
			if !ok {
				p.logger().Printf("skipped %s", f.path)
			}
			return nil
		})
	}

	err = grp.Wait()
	if err != nil {
		bar.Abort(false)
	}
	progress.Wait()
	return uploaded, err
}
