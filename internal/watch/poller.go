// Package watch drives reconciliation: it periodically fetches the sandbox
// listing and merges it into the workspace, and reacts to out-of-band
// change notifications from clients that provide them.
package watch

import (
	"context"
	"sync"
	"time"

	"workbench/internal/config"
	"workbench/internal/log"
	"workbench/internal/sandbox"
	"workbench/internal/workspace"
)

// PollerStatus represents the current status of the poller
type PollerStatus struct {
	Running  bool      // Whether the poller is currently active
	LastPoll time.Time // Time of the last completed poll
	Polls    int       // Total polls performed
	Failures int       // Polls that returned no usable listing
}

// Poller keeps the workspace reconciled with the sandbox.
type Poller struct {
	ws     *workspace.Workspace
	client sandbox.Client

	interval time.Duration

	// Callback invoked after a reconciliation that changed something
	onChange func()

	// Statistics
	polls    int
	failures int
	lastPoll time.Time

	// Channel to signal stop
	stopChan chan struct{}

	// Lock for running state and statistics
	mutex sync.RWMutex

	running bool
}

// NewPoller creates a poller reconciling ws through client at the interval
// from cfg.
func NewPoller(ws *workspace.Workspace, client sandbox.Client, cfg *config.Config) *Poller {
	return &Poller{
		ws:       ws,
		client:   client,
		interval: time.Duration(cfg.Sync.PollInterval) * time.Second,
	}
}

// SetOnChange sets a function called after every poll whose reconciliation
// changed the workspace. Callers use it to trigger re-render work only
// when something actually moved.
func (p *Poller) SetOnChange(cb func()) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.onChange = cb
}

// Start begins polling in the background. The first poll happens
// immediately so the workspace is populated without waiting a full
// interval.
func (p *Poller) Start() error {
	p.mutex.Lock()
	if p.running {
		p.mutex.Unlock()
		return errAlreadyRunning
	}
	p.running = true
	p.stopChan = make(chan struct{})
	stopChan := p.stopChan
	p.mutex.Unlock()

	// Out-of-band notifications, when the client supports them.
	var changes <-chan struct{}
	if notifier, ok := p.client.(sandbox.Notifier); ok {
		changes = notifier.Changes()
	}

	go func() {
		log.Debug("poller started")
		p.pollOnce()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.pollOnce()
			case _, ok := <-changes:
				if !ok {
					changes = nil
					continue
				}
				p.pollOnce()
			case <-stopChan:
				log.Debug("poller stopped")
				return
			}
		}
	}()

	return nil
}

// Stop halts polling.
func (p *Poller) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if !p.running {
		return
	}
	close(p.stopChan)
	p.running = false
}

// Status returns the current status of the poller
func (p *Poller) Status() PollerStatus {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return PollerStatus{
		Running:  p.running,
		LastPoll: p.lastPoll,
		Polls:    p.polls,
		Failures: p.failures,
	}
}

// PollNow runs a single poll cycle synchronously, outside the background
// cadence. Used by one-shot commands.
func (p *Poller) PollNow() bool {
	return p.pollOnce()
}

// pollOnce fetches a listing and reconciles it. A failed listing is "no
// information", never "no files": the workspace is left untouched.
func (p *Poller) pollOnce() bool {
	listing, err := p.client.List(context.Background())

	p.mutex.Lock()
	p.polls++
	p.lastPoll = time.Now()
	if err != nil {
		p.failures++
	}
	cb := p.onChange
	p.mutex.Unlock()

	if err != nil {
		log.Debugf("sandbox listing unavailable: %v", err)
		return false
	}

	changed := p.ws.Reconcile(listing)
	if changed && cb != nil {
		cb()
	}
	return changed
}
