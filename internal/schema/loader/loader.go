// Package loader resolves schema.Source values into raw documents from disk,
// an fs.FS, or HTTP. Callers construct it through formwizard.NewLoader.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/goliatone/go-formwizard/pkg/schema"
)

// MaxDocumentBytes caps the size of any single schema document.
const MaxDocumentBytes = 4 << 20

var (
	ErrHTTPDisabled     = errors.New("schema loader: http support disabled")
	ErrUnexpectedStatus = errors.New("schema loader: unexpected status")
	ErrTooLarge         = errors.New("schema loader: document exceeds size limit")
)

// Loader implements schema.Loader.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
}

var _ schema.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options schema.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{fs: options.FileSystem, http: httpClient, timeout: timeout}
}

// Load fetches a document from the provided source and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("schema loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return schema.Document{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = l.readFile(src.Location())
	case schema.SourceKindFS:
		data, err = l.readFS(src.Location())
	case schema.SourceKindURL:
		data, err = l.fetch(ctx, src.Location())
	default:
		err = fmt.Errorf("schema loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return schema.Document{}, err
	}
	return schema.NewDocument(src, data)
}

func (l *Loader) readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("schema loader: file path is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f)
}

func (l *Loader) readFS(name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("schema loader: fs path is required")
	}
	if l.fs == nil {
		return nil, errors.New("schema loader: fs is nil")
	}
	f, err := l.fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f)
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if l.http == nil {
		return nil, ErrHTTPDisabled
	}

	reqCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
	return readLimited(resp.Body)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxDocumentBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}
