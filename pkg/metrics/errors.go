package metrics

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"

	"github.com/dataobs/lens/pkg/storage"
)

// Backend names used in error wrapping, instrumentation, and partial-report bookkeeping.
const (
	BackendMongo     = "mongodb"
	BackendElastic   = "elasticsearch"
	BackendTimescale = "timescaledb"
	BackendRedis     = "redis"
)

// BackendError ties a storage failure to the backend that produced it.
// Use errors.Is with storage.ErrUnavailable or storage.ErrQueryRejected to
// branch on the failure kind.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return e.Backend + ": " + e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// classifyErr wraps err with the backend name, folding raw driver failures
// into the storage taxonomy. Timeouts and connection failures mean the store
// is unreachable; an error the server produced while parsing the query means
// the query itself is defective.
func classifyErr(backend string, err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	var netErr net.Error

	switch {
	case errors.Is(err, storage.ErrUnavailable), errors.Is(err, storage.ErrQueryRejected):
		// already classified by the storage layer
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		err = fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	case errors.Is(err, driver.ErrBadConn):
		err = fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	case errors.As(err, &pqErr):
		err = fmt.Errorf("%w: %v", storage.ErrQueryRejected, err)
	case errors.As(err, &netErr):
		err = fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	default:
		err = fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	return &BackendError{Backend: backend, Err: err}
}
