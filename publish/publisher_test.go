package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/toothbrush/md2conf/confluence"
	"github.com/toothbrush/md2conf/converter"
)

const fakeURL = "https://acme.atlassian.net/wiki"

type update struct {
	id, version, parentID int
	title, body           string
}

type fakeClient struct {
	mu sync.Mutex

	url     string
	pages   map[string]confluence.PageInfo
	folders map[string]int
	props   []confluence.Property

	created    []string
	createdIn  []int
	updates    []update
	deleted    []int
	uploads    []string
	propWrites []confluence.PropertyUpdate
	labels     []string

	uploadErr error
	// Base names UploadAttachment reports as skipped, like a file that isn't there.
	missing map[string]bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		url:     fakeURL,
		pages:   map[string]confluence.PageInfo{},
		folders: map[string]int{},
	}
}

func (f *fakeClient) URL() string { return f.url }

func (f *fakeClient) GetPage(_ context.Context, title string) (confluence.PageInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pages[title], nil
}

func (f *fakeClient) GetFolder(_ context.Context, name string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.folders[name], nil
}

func (f *fakeClient) CreatePage(_ context.Context, title, body string, parentID int) (confluence.PageInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, title)
	f.createdIn = append(f.createdIn, parentID)
	info := confluence.PageInfo{ID: 100, SpaceID: 1, Version: 1}
	f.pages[title] = info
	return info, nil
}

func (f *fakeClient) UpdatePage(_ context.Context, id int, title, body string, version int, parentID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update{id: id, version: version, parentID: parentID, title: title, body: body})
	return nil
}

func (f *fakeClient) DeletePage(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeClient) UploadAttachment(_ context.Context, pageID int, path, comment string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return false, f.uploadErr
	}
	if f.missing[filepath.Base(path)] {
		return false, nil
	}
	f.uploads = append(f.uploads, fmt.Sprintf("%d:%s:%s", pageID, filepath.Base(path), comment))
	return true, nil
}

func (f *fakeClient) GetPageProperties(context.Context, int) ([]confluence.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.props, nil
}

func (f *fakeClient) UpdatePageProperty(_ context.Context, _ int, prop confluence.PropertyUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.propWrites = append(f.propWrites, prop)
	return nil
}

func (f *fakeClient) UpdateLabels(_ context.Context, _ int, labels []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.labels = append(f.labels, labels...)
	return nil
}

func (f *fakeClient) sortedUploads() []string {
	out := append([]string(nil), f.uploads...)
	sort.Strings(out)
	return out
}

const guideMarkdown = "# Guide\n" +
	"\n" +
	"Intro text.\n" +
	"\n" +
	"![Diagram](img/diagram.png)\n" +
	"\n" +
	"![Logo](https://example.com/logo.png)\n" +
	"\n" +
	"## Setup\n" +
	"\n" +
	"See [setup](#setup).\n"

func writeMarkdown(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guide.md")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPublish_CreatesNewPage(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.pages["Parent"] = confluence.PageInfo{ID: 9}
	p := &Publisher{Client: client, Workers: 2}

	file := writeMarkdown(t, guideMarkdown)
	err := p.Publish(context.Background(), Options{
		File:        file,
		SpaceKey:    "DOC",
		Ancestor:    "Parent",
		Attachments: []string{"notes.pdf"},
		Labels:      []string{"docs"},
		Properties:  map[string]string{"team": "platform"},
		Editor:      converter.EditorV2,
		Source:      converter.SourceDefault,
	})
	if err != nil {
		t.Fatalf("Publish() unexpected error: %v", err)
	}

	if len(client.created) != 1 || client.created[0] != "Guide" || client.createdIn[0] != 9 {
		t.Errorf("created = %v under %v, want [Guide] under [9]", client.created, client.createdIn)
	}
	if len(client.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(client.updates))
	}

	got := client.updates[0]
	if got.id != 100 || got.version != 1 || got.parentID != 9 || got.title != "Guide" {
		t.Errorf("update = %+v", got)
	}

	contains := []string{
		`src="/wiki/download/attachments/100/diagram.png"`,
		`src="https://example.com/logo.png"`,
		`<a href="` + fakeURL + `/spaces/DOC/pages/100/Guide#Setup" title="setup">setup</a>`,
	}
	for _, want := range contains {
		if !strings.Contains(got.body, want) {
			t.Errorf("page body lacks %q\n%s", want, got.body)
		}
	}
	if strings.Contains(got.body, "<h1>Guide</h1>") {
		t.Errorf("title heading should not be part of the body\n%s", got.body)
	}

	wantUploads := []string{"100:diagram.png:Diagram", "100:notes.pdf:"}
	if gotUploads := client.sortedUploads(); strings.Join(gotUploads, "|") != strings.Join(wantUploads, "|") {
		t.Errorf("uploads = %v, want %v", gotUploads, wantUploads)
	}

	if len(client.labels) != 1 || client.labels[0] != "docs" {
		t.Errorf("labels = %v, want [docs]", client.labels)
	}
	if len(client.propWrites) != 1 || client.propWrites[0].Key != "team" || client.propWrites[0].Version != 1 {
		t.Errorf("property writes = %+v", client.propWrites)
	}
}

func TestPublish_UpdatesExistingPage(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.pages["Explicit title"] = confluence.PageInfo{ID: 5, Version: 3}
	p := &Publisher{Client: client}

	file := writeMarkdown(t, "# Heading stays\n\nBody.\n")
	err := p.Publish(context.Background(), Options{File: file, Title: "Explicit title", SpaceKey: "DOC"})
	if err != nil {
		t.Fatalf("Publish() unexpected error: %v", err)
	}

	if len(client.created) != 0 {
		t.Errorf("created = %v, want none", client.created)
	}
	if len(client.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(client.updates))
	}
	got := client.updates[0]
	if got.id != 5 || got.version != 3 || got.parentID != 0 {
		t.Errorf("update = %+v", got)
	}
	if !strings.Contains(got.body, "<h1>Heading stays</h1>") {
		t.Errorf("with an explicit title the first heading stays\n%s", got.body)
	}
}

func TestPublish_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		existing    map[string]confluence.PageInfo
		wantDeleted []int
	}{
		{
			name:        "existing page",
			existing:    map[string]confluence.PageInfo{"Guide": {ID: 5}},
			wantDeleted: []int{5},
		},
		{
			name:     "nothing to delete",
			existing: map[string]confluence.PageInfo{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newFakeClient()
			client.pages = tt.existing
			var logs bytes.Buffer
			p := &Publisher{Client: client, Logger: log.New(&logs, "", 0)}

			err := p.Publish(context.Background(), Options{File: writeMarkdown(t, guideMarkdown), Delete: true})
			if err != nil {
				t.Fatalf("Publish() unexpected error: %v", err)
			}
			if fmt.Sprint(client.deleted) != fmt.Sprint(tt.wantDeleted) {
				t.Errorf("deleted = %v, want %v", client.deleted, tt.wantDeleted)
			}
			if len(client.created)+len(client.updates) != 0 {
				t.Errorf("delete mode must not create or update pages")
			}
			if len(tt.wantDeleted) == 0 && !strings.Contains(logs.String(), "nothing to delete") {
				t.Errorf("expected a warning, got logs %q", logs.String())
			}
		})
	}
}

func TestPublish_Simulate(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := &Publisher{Out: &out}

	err := p.Publish(context.Background(), Options{File: writeMarkdown(t, "# T\n\n[TOC]\n"), Simulate: true})
	if err != nil {
		t.Fatalf("Publish() unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), `ac:name="toc"`) {
		t.Errorf("simulate output = %q, want the converted page", out.String())
	}
}

func TestPublish_ParentResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pages      map[string]confluence.PageInfo
		folders    map[string]int
		ancestor   string
		wantParent int
		wantLog    string
	}{
		{
			name:       "no ancestor",
			wantParent: 0,
		},
		{
			name:       "parent page",
			pages:      map[string]confluence.PageInfo{"Home": {ID: 3}},
			ancestor:   "Home",
			wantParent: 3,
		},
		{
			name:       "parent folder",
			folders:    map[string]int{"Drafts": 8},
			ancestor:   "Drafts",
			wantParent: 8,
		},
		{
			name:       "unknown parent",
			ancestor:   "Nowhere",
			wantParent: 0,
			wantLog:    "parent page/folder does not exist: Nowhere",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newFakeClient()
			for k, v := range tt.pages {
				client.pages[k] = v
			}
			for k, v := range tt.folders {
				client.folders[k] = v
			}
			var logs bytes.Buffer
			p := &Publisher{Client: client, Logger: log.New(&logs, "", 0)}

			err := p.Publish(context.Background(), Options{File: writeMarkdown(t, "# Child\n\nx\n"), Ancestor: tt.ancestor})
			if err != nil {
				t.Fatalf("Publish() unexpected error: %v", err)
			}
			if len(client.createdIn) != 1 || client.createdIn[0] != tt.wantParent {
				t.Errorf("created under %v, want %d", client.createdIn, tt.wantParent)
			}
			if tt.wantLog != "" && !strings.Contains(logs.String(), tt.wantLog) {
				t.Errorf("logs = %q, want %q", logs.String(), tt.wantLog)
			}
			if tt.wantLog == "" && strings.Contains(logs.String(), "does not exist") {
				t.Errorf("unexpected parent error in logs: %q", logs.String())
			}
		})
	}
}

func TestPublish_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		markdown  string
		uploadErr error
		wantErr   error
	}{
		{
			name:     "image without source",
			markdown: "# T\n\n<img alt=\"x\">\n",
			wantErr:  ErrImageSource,
		},
		{
			name:     "footnote without link",
			markdown: "# T\n\nText[^1].\n\n[^1]: no link here\n",
			wantErr:  converter.ErrFootnoteLink,
		},
		{
			name:      "failed upload",
			markdown:  "# T\n\n![a](a.png)\n",
			uploadErr: errors.New("boom"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newFakeClient()
			client.uploadErr = tt.uploadErr
			p := &Publisher{Client: client}

			err := p.Publish(context.Background(), Options{File: writeMarkdown(t, tt.markdown)})
			if err == nil {
				t.Fatal("Publish() expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
			if tt.uploadErr != nil && !errors.Is(err, tt.uploadErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.uploadErr)
			}
			if len(client.updates) != 0 {
				t.Errorf("page updated despite the error")
			}
		})
	}
}

func TestPublish_MissingFile(t *testing.T) {
	t.Parallel()

	p := &Publisher{Client: newFakeClient()}
	if err := p.Publish(context.Background(), Options{File: filepath.Join(t.TempDir(), "nope.md")}); err == nil {
		t.Error("Publish() expected an error for a missing file")
	}
}

func TestAttachmentURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base string
		file string
		want string
	}{
		{"https://acme.atlassian.net/wiki", "img/a.png", "/wiki/download/attachments/7/a.png"},
		{"https://wiki.example.com", "a.png", "/download/attachments/7/a.png"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.base, func(t *testing.T) {
			t.Parallel()
			if got := attachmentURL(tt.base, 7, tt.file); got != tt.want {
				t.Errorf("attachmentURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImages(t *testing.T) {
	t.Parallel()

	html := `<p><img src="a.png" alt="A" /><img src="b.png" /><img src="a.png" alt="again" /></p>`
	got, err := images(html)
	if err != nil {
		t.Fatalf("images() unexpected error: %v", err)
	}
	want := []image{{src: "a.png", alt: "A"}, {src: "b.png"}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("images() = %v, want %v", got, want)
	}
}

func property(id, key string, value any, version int) confluence.Property {
	raw, _ := json.Marshal(value)
	return confluence.Property{ID: id, Key: key, Value: raw, Version: confluence.Version{Number: version}}
}

func TestPropertyUpdates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		existing  []confluence.Property
		requested map[string]string
		editor    converter.EditorVersion
		want      []confluence.PropertyUpdate
	}{
		{
			name:     "editor moved to requested version",
			existing: []confluence.Property{property("e1", "editor", "v1", 4)},
			editor:   converter.EditorV2,
			want:     []confluence.PropertyUpdate{{ID: "e1", Key: "editor", Value: "v2", Version: 5}},
		},
		{
			name:     "editor already right",
			existing: []confluence.Property{property("e1", "editor", "v2", 4)},
			editor:   converter.EditorV2,
		},
		{
			name:      "new and existing properties in key order",
			existing:  []confluence.Property{property("p1", "owner", "old", 2)},
			requested: map[string]string{"team": "docs", "owner": "ann"},
			editor:    converter.EditorV2,
			want: []confluence.PropertyUpdate{
				{ID: "p1", Key: "owner", Value: "ann", Version: 3},
				{Key: "team", Value: "docs", Version: 1},
			},
		},
		{
			name:      "explicit editor property wins",
			existing:  []confluence.Property{property("e1", "editor", "v1", 1)},
			requested: map[string]string{"editor": "v1"},
			editor:    converter.EditorV2,
			want:      []confluence.PropertyUpdate{{ID: "e1", Key: "editor", Value: "v1", Version: 2}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := propertyUpdates(tt.existing, tt.requested, tt.editor)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("propertyUpdates() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPublish_ImagePaths(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.missing = map[string]bool{"gone.png": true}
	p := &Publisher{Client: client}

	file := writeMarkdown(t, "# Pics\n\n![Spaced](<my img.png>)\n\n![Gone](gone.png)\n")
	if err := p.Publish(context.Background(), Options{File: file, SpaceKey: "DOC"}); err != nil {
		t.Fatalf("Publish() unexpected error: %v", err)
	}

	wantUploads := []string{"100:my img.png:Spaced"}
	if got := client.sortedUploads(); strings.Join(got, "|") != strings.Join(wantUploads, "|") {
		t.Errorf("uploads = %v, want %v", got, wantUploads)
	}

	body := client.updates[0].body
	if !strings.Contains(body, `src="/wiki/download/attachments/100/my%20img.png"`) {
		t.Errorf("uploaded image not pointed at its attachment\n%s", body)
	}
	if !strings.Contains(body, `src="gone.png"`) {
		t.Errorf("skipped image should keep its source\n%s", body)
	}
}
