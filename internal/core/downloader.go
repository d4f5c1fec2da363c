package core

import (
	"context"
	"crypto/sha1"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DefaultUserAgent identifies mrunpack to download hosts
const DefaultUserAgent = "mrunpack (github.com/DonovanMods/mrunpack)"

// DownloadProgress represents the current state of a download
type DownloadProgress struct {
	TotalBytes int64   // Total size in bytes (0 if unknown)
	Downloaded int64   // Bytes downloaded so far
	Percentage float64 // Completion percentage (0-100)
}

// ProgressFunc is called periodically during download with progress updates
type ProgressFunc func(DownloadProgress)

// DownloadResult contains the outcome of a download
type DownloadResult struct {
	Path   string // Final file path
	Size   int64  // Bytes downloaded
	SHA1   string
	SHA512 string
}

// Expect describes what a download must match before it is kept.
// Zero values are not checked; unknown hash algorithms are ignored.
type Expect struct {
	Size   int64
	Hashes map[string]string
}

// Downloader handles HTTP file downloads with progress tracking
type Downloader struct {
	httpClient *http.Client
	userAgent  string
}

// NewDownloader creates a new Downloader with the given HTTP client
// If httpClient is nil, http.DefaultClient is used
func NewDownloader(httpClient *http.Client) *Downloader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Downloader{
		httpClient: httpClient,
		userAgent:  DefaultUserAgent,
	}
}

// Download fetches a file from the URL and saves it to destPath.
// The body is written to a temp file beside destPath and renamed into place only
// after the transfer completes and matches expect; on any failure destPath is untouched.
// Progress updates are sent to the optional progressFn callback
func (d *Downloader) Download(ctx context.Context, url, destPath string, expect Expect, progressFn ProgressFunc) (*DownloadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating directory: %w", err)
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(destPath)+".*.part")
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	tempPath := file.Name()
	defer func() {
		file.Close()
		os.Remove(tempPath) // No-op after a successful rename
	}()

	totalBytes := resp.ContentLength
	if totalBytes <= 0 {
		totalBytes = expect.Size
	}

	sha1Hasher := sha1.New()
	sha512Hasher := sha512.New()

	reader := &progressReader{
		reader:     resp.Body,
		totalBytes: totalBytes,
		progressFn: progressFn,
	}

	written, err := io.Copy(io.MultiWriter(file, sha1Hasher, sha512Hasher), reader)
	if err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}

	result := &DownloadResult{
		Path:   destPath,
		Size:   written,
		SHA1:   hex.EncodeToString(sha1Hasher.Sum(nil)),
		SHA512: hex.EncodeToString(sha512Hasher.Sum(nil)),
	}
	if err := result.verify(expect); err != nil {
		return nil, err
	}

	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("closing file: %w", err)
	}

	if err := os.Rename(tempPath, destPath); err != nil {
		return nil, fmt.Errorf("renaming file: %w", err)
	}

	return result, nil
}

func (r *DownloadResult) verify(expect Expect) error {
	if expect.Size > 0 && r.Size != expect.Size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expect.Size, r.Size)
	}
	for algo, want := range expect.Hashes {
		var got string
		switch strings.ToLower(algo) {
		case "sha1":
			got = r.SHA1
		case "sha512":
			got = r.SHA512
		default:
			continue
		}
		if !strings.EqualFold(got, want) {
			return fmt.Errorf("%s mismatch: expected %s, got %s", algo, want, got)
		}
	}
	return nil
}

// progressReader wraps an io.Reader to track download progress
type progressReader struct {
	reader     io.Reader
	totalBytes int64
	downloaded int64
	progressFn ProgressFunc
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.downloaded += int64(n)
		if r.progressFn != nil {
			progress := DownloadProgress{
				TotalBytes: r.totalBytes,
				Downloaded: r.downloaded,
			}
			if r.totalBytes > 0 {
				progress.Percentage = float64(r.downloaded) / float64(r.totalBytes) * 100
			}
			r.progressFn(progress)
		}
	}
	return n, err
}
