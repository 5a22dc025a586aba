// Package vcr records Confluence traffic to a cassette and replays it, so
// commands can be rerun offline.
package vcr

import (
	"fmt"
	"net/http"
	"strings"

	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

// DefaultCassette is where --with-vcr keeps its recordings.
const DefaultCassette = "fixtures/confluence"

// Mode picks between recording and replaying.
type Mode = recorder.Mode

const (
	ModeRecord         = recorder.ModeRecordOnly
	ModeReplay         = recorder.ModeReplayOnly
	ModeReplayOrRecord = recorder.ModeReplayWithNewEpisodes
)

// Recorder wraps a go-vcr recorder.
type Recorder struct {
	rec *recorder.Recorder
}

// New opens (or starts) the cassette at name. Real requests go through
// transport, or http.DefaultTransport when nil.
func New(name string, mode Mode, transport http.RoundTripper) (*Recorder, error) {
	if transport == nil {
		transport = http.DefaultTransport
	}
	opts := &recorder.Options{
		CassetteName:       strings.TrimSuffix(name, ".yaml"),
		Mode:               mode,
		SkipRequestLatency: true,
		RealTransport:      transport,
	}
	r, err := recorder.NewWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("vcr: couldn't set up go-vcr recording: %w", err)
	}

	// Credentials never end up in a cassette.
	r.AddHook(scrub, recorder.AfterCaptureHook)
	r.SetReplayableInteractions(true)

	return &Recorder{rec: r}, nil
}

func scrub(i *cassette.Interaction) error {
	delete(i.Request.Headers, "Authorization")
	delete(i.Request.Headers, "Cookie")
	delete(i.Response.Headers, "Set-Cookie")
	return nil
}

// Client returns an HTTP client that talks through the recorder.
func (r *Recorder) Client() *http.Client {
	return r.rec.GetDefaultClient()
}

// Stop flushes the cassette to disk.
func (r *Recorder) Stop() error {
	if err := r.rec.Stop(); err != nil {
		return fmt.Errorf("vcr: couldn't save cassette: %w", err)
	}
	return nil
}
