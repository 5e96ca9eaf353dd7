// Package feed downloads the certified devices CSV and decodes it to UTF-8.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/androidtrackers/certified-android-devices/internal/logging"
)

// DefaultURL is the published location of the certified devices list.
const DefaultURL = "http://storage.googleapis.com/play_public/supported_devices.csv"

// ErrUnexpectedStatus is returned when the feed server answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected feed status")

// Fetcher retrieves the feed over HTTP.
type Fetcher struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

// New creates a Fetcher for url. A zero timeout disables the client timeout.
func New(url string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    logging.WithComponent("feed"),
	}
}

// Fetch downloads the feed and returns its decoded text.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read feed body: %w", err)
	}

	f.log.Debug().Str("url", f.url).Str("size", humanize.Bytes(uint64(len(raw)))).Msg("feed downloaded")

	return Decode(raw)
}

// Decode converts raw feed bytes to a UTF-8 string. A UTF-16 byte order mark
// selects UTF-16 in the marked byte order; a UTF-8 BOM is stripped; anything
// else is taken as UTF-8.
func Decode(raw []byte) (string, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode feed: %w", err)
	}
	return string(out), nil
}
