package schedcore

import "errors"

// ErrDriverNotReady is returned by Driver.LaunchTask when the driver cannot
// currently reach the resource manager's master. Transient: the caller
// transitions the task to LOST rather than retrying the launch itself.
var ErrDriverNotReady = errors.New("driver not ready")

// ErrTransient wraps a transient storage fault from Storage or Assigner.
// Callers should errors.Is against this rather than matching error text;
// TaskScheduler.Schedule treats it as TRY_LATER rather than propagating it.
var ErrTransient = errors.New("transient storage fault")
