package steam

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork         = errors.New("network error")
	ErrTimeout         = errors.New("request timed out")
	ErrParse           = errors.New("unexpected payload")
	ErrProfileNotFound = errors.New("profile not available")
	ErrAuth            = errors.New("authenticated request rejected")
	// ErrPartialData marks a best-effort lookup that failed. It is logged,
	// never returned to callers.
	ErrPartialData = errors.New("partial data")
)

// NetworkError covers connectivity failures, bad upstream statuses and
// timeouts. A timeout matches both ErrTimeout and ErrNetwork.
type NetworkError struct {
	URL     string
	Status  int
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s: %s", ErrTimeout, e.URL)
	case e.Status != 0:
		return fmt.Sprintf("%s: %s returned status %d", ErrNetwork, e.URL, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %s", ErrNetwork, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s: %s", ErrNetwork, e.URL)
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork || (e.Timeout && target == ErrTimeout)
}

func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
