package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/DonovanMods/mrunpack/internal/domain"

	"golang.org/x/sync/errgroup"
)

// DefaultJobs is the number of files fetched concurrently
const DefaultJobs = 8

// FetchEvent reports one finished manifest entry
type FetchEvent struct {
	Path       string
	Bytes      int64 // Bytes written for this entry
	Err        error // Nil on success
	Done       int   // Entries finished so far, including this one
	Total      int   // Entries to fetch (skipped entries excluded)
	BytesDone  int64
	BytesTotal int64 // Sum of declared file sizes; 0 when unknown
}

// FetchObserver receives fetch progress. Calls are serialized.
type FetchObserver func(FetchEvent)

// FetchReport summarizes a fetch run
type FetchReport struct {
	Succeeded []string         // Manifest paths written, sorted
	Skipped   []string         // Entries not meant for the client, sorted
	Failed    map[string]error // Manifest path -> cause
	Bytes     int64
}

// Err returns nil when every entry succeeded, otherwise an error naming the
// failed paths. It wraps domain.ErrPathEscape when any path escaped the
// destination and domain.ErrNetwork when any download failed.
func (r *FetchReport) Err() error {
	if r == nil || len(r.Failed) == 0 {
		return nil
	}

	paths := make([]string, 0, len(r.Failed))
	for p := range r.Failed {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	errs := make([]error, 0, len(paths))
	for _, p := range paths {
		errs = append(errs, fmt.Errorf("%s: %w", p, r.Failed[p]))
	}
	return fmt.Errorf("%d of %d files failed to download: %w",
		len(r.Failed), len(r.Failed)+len(r.Succeeded), errors.Join(errs...))
}

// Fetcher downloads manifest entries into an instance root
type Fetcher struct {
	downloader *Downloader
	jobs       int
	observer   FetchObserver
}

// NewFetcher creates a fetcher running at most jobs downloads at once.
// jobs <= 0 selects DefaultJobs.
func NewFetcher(downloader *Downloader, jobs int) *Fetcher {
	if jobs <= 0 {
		jobs = DefaultJobs
	}
	return &Fetcher{
		downloader: downloader,
		jobs:       jobs,
	}
}

// SetObserver registers a progress observer
func (f *Fetcher) SetObserver(obs FetchObserver) {
	f.observer = obs
}

// Fetch downloads every client-side entry of files into destRoot. Each entry
// tries its URLs in order; one entry failing never stops the others.
func (f *Fetcher) Fetch(ctx context.Context, files []domain.FileEntry, destRoot string) *FetchReport {
	report := &FetchReport{Failed: make(map[string]error)}

	var todo []domain.FileEntry
	var bytesTotal int64
	for _, entry := range files {
		if !entry.ClientSide() {
			report.Skipped = append(report.Skipped, entry.Path)
			continue
		}
		todo = append(todo, entry)
		bytesTotal += entry.FileSize
	}
	sort.Strings(report.Skipped)

	var (
		mu   sync.Mutex
		done int
	)
	finish := func(path string, n int64, err error) {
		mu.Lock()
		defer mu.Unlock()
		done++
		if err != nil {
			report.Failed[path] = err
		} else {
			report.Succeeded = append(report.Succeeded, path)
			report.Bytes += n
		}
		if f.observer != nil {
			f.observer(FetchEvent{
				Path:       path,
				Bytes:      n,
				Err:        err,
				Done:       done,
				Total:      len(todo),
				BytesDone:  report.Bytes,
				BytesTotal: bytesTotal,
			})
		}
	}

	g := new(errgroup.Group)
	g.SetLimit(f.jobs)
	for _, entry := range todo {
		entry := entry
		g.Go(func() error {
			n, err := f.fetchOne(ctx, entry, destRoot)
			finish(entry.Path, n, err)
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(report.Succeeded)
	return report
}

// fetchOne tries each download URL of entry until one yields a verified file
func (f *Fetcher) fetchOne(ctx context.Context, entry domain.FileEntry, destRoot string) (int64, error) {
	dest, err := ResolveEntryPath(destRoot, entry.Path)
	if err != nil {
		return 0, err
	}
	if len(entry.Downloads) == 0 {
		return 0, fmt.Errorf("%w: no download URLs", domain.ErrNetwork)
	}

	expect := Expect{Size: entry.FileSize, Hashes: entry.Hashes}
	var errs []error
	for _, url := range entry.Downloads {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		result, err := f.downloader.Download(ctx, url, dest, expect, nil)
		if err == nil {
			return result.Size, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", url, err))
	}
	return 0, fmt.Errorf("%w: all download URLs failed: %w", domain.ErrNetwork, errors.Join(errs...))
}

// ResolveEntryPath joins a manifest-relative path onto root. Absolute paths,
// volume names and any ".." segment are rejected with domain.ErrPathEscape.
func ResolveEntryPath(root, rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("%w: empty path", domain.ErrPathEscape)
	}
	normalized := strings.ReplaceAll(rel, "\\", "/")
	if strings.HasPrefix(normalized, "/") || filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return "", fmt.Errorf("%w: absolute path %q", domain.ErrPathEscape, rel)
	}
	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: %q leaves the instance directory", domain.ErrPathEscape, rel)
		}
	}

	cleaned := filepath.Clean(filepath.FromSlash(normalized))
	if cleaned == "." {
		return "", fmt.Errorf("%w: %q names the instance directory itself", domain.ErrPathEscape, rel)
	}
	return filepath.Join(root, cleaned), nil
}
