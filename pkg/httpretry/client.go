package httpretry

import (
	"time"

	"github.com/ybbus/httpretry"
)

// Client is shared by clients of external provisioning APIs. The core fetch
// loop has its own retry semantics and does not use it.
var Client = httpretry.NewDefaultClient(
	httpretry.WithMaxRetryCount(3),

	// Retry on any error, 5xx status codes and 0 status codes.
	httpretry.WithRetryPolicy(func(statusCode int, err error) bool {
		return err != nil || statusCode >= 500 || statusCode == 0 || statusCode == 429
	}),

	// Retry with an incremental backoff policy.
	httpretry.WithBackoffPolicy(func(attemptNum int) time.Duration {
		return time.Duration(attemptNum+1) * time.Second
	}),
)
