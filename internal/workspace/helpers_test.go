package workspace

import (
	"context"
	"sync"

	"workbench/internal/errors"
	"workbench/pkg/types"
)

// fakeClient is an in-memory sandbox.Client for exercising the loader and
// the autosave scheduler without a filesystem.
type fakeClient struct {
	mu sync.Mutex

	files  map[string]string
	stamps map[string]string

	reads  int
	writes []fakeWrite

	listErr  error
	readErr  error
	writeErr error

	// When non-nil, Write blocks until the channel is closed. Lets tests
	// hold a write in flight.
	writeGate chan struct{}

	// Counts writes that have started, including blocked ones.
	writesStarted int
}

type fakeWrite struct {
	path    string
	content string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		files:  make(map[string]string),
		stamps: make(map[string]string),
	}
}

func (f *fakeClient) List(ctx context.Context) ([]types.RemoteEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var entries []types.RemoteEntry
	for path, content := range f.files {
		entries = append(entries, types.RemoteEntry{
			Path:     path,
			Size:     int64(len(content)),
			ModStamp: f.stamps[path],
		})
	}
	return entries, nil
}

func (f *fakeClient) Read(ctx context.Context, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.readErr != nil {
		return "", f.readErr
	}
	content, ok := f.files[path]
	if !ok {
		return "", errors.NewSandboxError("file not found in sandbox", path, errors.NotFound, nil)
	}
	return content, nil
}

func (f *fakeClient) Write(ctx context.Context, path string, content string) (string, error) {
	f.mu.Lock()
	f.writesStarted++
	gate := f.writeGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return "", f.writeErr
	}
	f.files[path] = content
	stamp := f.stamps[path] + "+"
	f.stamps[path] = stamp
	f.writes = append(f.writes, fakeWrite{path: path, content: content})
	return stamp, nil
}

func (f *fakeClient) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[path]; !ok {
		return errors.NewSandboxError("file not found in sandbox", path, errors.NotFound, nil)
	}
	delete(f.files, path)
	delete(f.stamps, path)
	return nil
}

func (f *fakeClient) writeLog() []fakeWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fakeWrite, len(f.writes))
	copy(out, f.writes)
	return out
}

func (f *fakeClient) started() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writesStarted
}

func (f *fakeClient) setWriteErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = err
}

func (f *fakeClient) put(path, content, stamp string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = content
	f.stamps[path] = stamp
}
