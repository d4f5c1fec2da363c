package core_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/DonovanMods/mrunpack/internal/core"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// writeZip creates a zip archive at path holding files
func writeZip(t *testing.T, path string, files map[string]string) string {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

// writePack creates a package in dir with the given manifest document and extra entries
func writePack(t *testing.T, dir string, manifest any, extra map[string]string) string {
	t.Helper()
	data, err := json.Marshal(manifest)
	require.NoError(t, err)

	files := map[string]string{"modrinth.index.json": string(data)}
	for k, v := range extra {
		files[k] = v
	}
	return writeZip(t, filepath.Join(dir, "Test Pack.mrpack"), files)
}

// fileEntry builds a manifest file entry
func fileEntry(path string, urls ...string) map[string]any {
	return map[string]any{"path": path, "downloads": urls}
}

// rewriteTransport sends every request to target, keeping the path
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

// clientFor returns an HTTP client whose requests all reach serverURL
func clientFor(t *testing.T, serverURL string) *http.Client {
	t.Helper()
	u, err := url.Parse(serverURL)
	require.NoError(t, err)
	return &http.Client{Transport: rewriteTransport{target: u}}
}

type runCall struct {
	Dir  string
	Name string
	Args []string
}

// fakeRunner records invocations instead of starting processes
type fakeRunner struct {
	mu     sync.Mutex
	calls  []runCall
	result *core.ProcessResult
	err    error
}

func (r *fakeRunner) Run(_ context.Context, dir, name string, args ...string) (*core.ProcessResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, runCall{Dir: dir, Name: name, Args: args})
	result := r.result
	if result == nil {
		result = &core.ProcessResult{}
	}
	return result, r.err
}

func (r *fakeRunner) Calls() []runCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]runCall(nil), r.calls...)
}

// answer returns a confirmer that records prompts and replies ok
func answer(ok bool, prompts *[]string) core.Confirmer {
	return core.ConfirmFunc(func(prompt string) (bool, error) {
		if prompts != nil {
			*prompts = append(*prompts, prompt)
		}
		return ok, nil
	})
}
