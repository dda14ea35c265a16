package llm

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"time"
)

// MaxRetries bounds attempts for a single request.
const MaxRetries = 3

const (
	backoffBase = time.Second
	backoffCap  = 30 * time.Second
)

// retryableStatus reports whether an HTTP status is a transient upstream
// failure: rate limiting or a server error.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff is the wait before retry n (0-indexed): doubling from one second,
// capped at 30s, plus up to 50% random jitter.
func Backoff(attempt int) time.Duration {
	d := min(backoffBase<<min(max(attempt, 0), 5), backoffCap)
	return d + rand.N(d/2)
}
