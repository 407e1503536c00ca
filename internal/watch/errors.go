package watch

import "workbench/internal/errors"

var errAlreadyRunning = errors.New("poller is already running")
