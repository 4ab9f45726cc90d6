package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultFileName is the name given to every downloaded archive.
const DefaultFileName = "pet.zip"

var printer = message.NewPrinter(language.English)

// Fetcher downloads remote archives.
type Fetcher struct {
	fs         afero.Fs
	httpClient *http.Client
	tempRoot   string
	fileName   string
	userAgent  string
	progress   io.Writer
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithFs sets the filesystem downloads are written to.
func WithFs(fsys afero.Fs) Option {
	return func(f *Fetcher) {
		f.fs = fsys
	}
}

// WithTempRoot sets the directory under which per-download temp dirs are made.
func WithTempRoot(dir string) Option {
	return func(f *Fetcher) {
		if dir != "" {
			f.tempRoot = dir
		}
	}
}

// WithFileName overrides the downloaded file name.
func WithFileName(name string) Option {
	return func(f *Fetcher) {
		if name != "" {
			f.fileName = name
		}
	}
}

// WithUserAgent sets the User-Agent header sent with downloads.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithProgress directs download progress output to w.
func WithProgress(w io.Writer) Option {
	return func(f *Fetcher) {
		if w != nil {
			f.progress = w
		}
	}
}

// NewFetcher creates a Fetcher with the given options.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		fs:         afero.NewOsFs(),
		httpClient: http.DefaultClient,
		tempRoot:   os.TempDir(),
		fileName:   DefaultFileName,
		userAgent:  "lamlight",
		progress:   io.Discard,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Download fetches url into a newly created temporary directory and returns
// the path of the downloaded file.
func (f *Fetcher) Download(ctx context.Context, url string) (string, error) {
	dir, err := afero.TempDir(f.fs, f.tempRoot, "lamlight-")
	if err != nil {
		return "", fmt.Errorf("creating download directory under %s: %w", f.tempRoot, err)
	}
	destPath := filepath.Join(dir, f.fileName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: server returned status %d", url, resp.StatusCode)
	}

	out, err := f.fs.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}
	defer out.Close()

	total := resp.ContentLength
	var downloaded int64
	lastPercent := -1

	buf := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return "", fmt.Errorf("writing download: %w", writeErr)
			}
			downloaded += int64(n)
			if total > 0 {
				percent := int(downloaded * 100 / total)
				if percent != lastPercent {
					fmt.Fprintf(f.progress, "\rDownloading... %d%%", percent)
					lastPercent = percent
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("reading download stream: %w", readErr)
		}
	}
	if total > 0 {
		fmt.Fprintln(f.progress)
	}
	printer.Fprintf(f.progress, "Downloaded %d bytes to %s\n", downloaded, destPath)

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing download file: %w", err)
	}
	return destPath, nil
}
