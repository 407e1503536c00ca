package watch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workbench/internal/config"
	"workbench/internal/errors"
	"workbench/internal/workspace"
	"workbench/pkg/types"
)

// listClient is a minimal sandbox.Client whose listing can be swapped out
// between polls.
type listClient struct {
	mu      sync.Mutex
	entries []types.RemoteEntry
	listErr error
	lists   int
}

func (c *listClient) List(ctx context.Context) ([]types.RemoteEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists++
	if c.listErr != nil {
		return nil, c.listErr
	}
	out := make([]types.RemoteEntry, len(c.entries))
	copy(out, c.entries)
	return out, nil
}

func (c *listClient) Read(ctx context.Context, path string) (string, error) {
	return "", errors.NewSandboxError("read not supported", path, errors.NotFound, nil)
}

func (c *listClient) Write(ctx context.Context, path, content string) (string, error) {
	return "", errors.NewSandboxError("write not supported", path, errors.WriteRejected, nil)
}

func (c *listClient) Delete(ctx context.Context, path string) error {
	return errors.NewSandboxError("delete not supported", path, errors.NotFound, nil)
}

func (c *listClient) set(entries []types.RemoteEntry, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
	c.listErr = err
}

func newTestPoller(client *listClient) (*Poller, *workspace.Workspace) {
	ws := workspace.New()
	p := NewPoller(ws, client, config.New())
	p.interval = 10 * time.Millisecond
	return p, ws
}

func TestPollNowPopulatesWorkspace(t *testing.T) {
	client := &listClient{entries: []types.RemoteEntry{
		{Path: "a.py", Size: 10, ModStamp: "t1"},
		{Path: "b.py", Size: 20, ModStamp: "t1"},
	}}
	p, ws := newTestPoller(client)

	changed := p.PollNow()

	assert.True(t, changed)
	assert.Equal(t, 2, ws.Len())
	status := p.Status()
	assert.Equal(t, 1, status.Polls)
	assert.Equal(t, 0, status.Failures)
	assert.False(t, status.LastPoll.IsZero())
}

func TestFailedListingLeavesWorkspaceUntouched(t *testing.T) {
	client := &listClient{entries: []types.RemoteEntry{
		{Path: "a.py", Size: 10, ModStamp: "t1"},
	}}
	p, ws := newTestPoller(client)
	require.True(t, p.PollNow())

	client.set(nil, errors.NewSandboxError("connection refused", "", errors.Unreachable, nil))
	changed := p.PollNow()

	assert.False(t, changed)
	assert.Equal(t, 1, ws.Len(), "entities must survive a failed listing")
	status := p.Status()
	assert.Equal(t, 2, status.Polls)
	assert.Equal(t, 1, status.Failures)
}

func TestOnChangeFiresOnlyWhenSomethingMoved(t *testing.T) {
	client := &listClient{entries: []types.RemoteEntry{
		{Path: "a.py", Size: 10, ModStamp: "t1"},
	}}
	p, _ := newTestPoller(client)

	var mu sync.Mutex
	fired := 0
	p.SetOnChange(func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	require.True(t, p.PollNow())
	require.False(t, p.PollNow(), "identical listing must not report change")
	client.set([]types.RemoteEntry{{Path: "a.py", Size: 12, ModStamp: "t2"}}, nil)
	require.True(t, p.PollNow())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, fired)
}

func TestStartPollsInBackground(t *testing.T) {
	client := &listClient{entries: []types.RemoteEntry{
		{Path: "a.py", Size: 10, ModStamp: "t1"},
	}}
	p, ws := newTestPoller(client)

	require.NoError(t, p.Start())
	defer p.Stop()

	deadline := time.After(2 * time.Second)
	for ws.Len() == 0 {
		select {
		case <-deadline:
			t.Fatal("workspace never populated by background poll")
		case <-time.After(5 * time.Millisecond):
		}
	}
	assert.True(t, p.Status().Running)
}

func TestStartTwiceFails(t *testing.T) {
	p, _ := newTestPoller(&listClient{})

	require.NoError(t, p.Start())
	defer p.Stop()

	assert.Error(t, p.Start())
}

func TestStopHaltsPolling(t *testing.T) {
	client := &listClient{}
	p, _ := newTestPoller(client)

	require.NoError(t, p.Start())
	p.Stop()
	assert.False(t, p.Status().Running)

	// A stopped poller must not keep hitting the sandbox.
	time.Sleep(30 * time.Millisecond)
	client.mu.Lock()
	before := client.lists
	client.mu.Unlock()
	time.Sleep(30 * time.Millisecond)
	client.mu.Lock()
	after := client.lists
	client.mu.Unlock()
	assert.Equal(t, before, after)

	// Stopping again is harmless.
	p.Stop()
}
