package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// HTTPError carries a backend HTTP status so the retry policy can tell
// transient failures from permanent ones.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Body)
}

// retryPolicy mirrors the backends' shared schedule: exponential waits
// between 2s and 10s, at most maxRetries retries, abandoned when ctx ends.
func retryPolicy(ctx context.Context, maxRetries int) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	if maxRetries < 0 {
		maxRetries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxRetries)), ctx)
}

// withRetry runs op under policy. Client errors other than 429 are
// permanent: retrying a rejected request only repeats the rejection.
func withRetry(policy backoff.BackOff, op func() (string, error)) (string, error) {
	var result string
	err := backoff.Retry(func() error {
		s, err := op()
		if err != nil {
			var he *HTTPError
			if errors.As(err, &he) && he.Status >= 400 && he.Status < 500 && he.Status != http.StatusTooManyRequests {
				return backoff.Permanent(err)
			}
			return err
		}
		result = s
		return nil
	}, policy)
	if err != nil {
		return "", err
	}
	return result, nil
}
