package tracking

import "errors"

var (
	ErrNoDestination     = errors.New("navigation: no destination")
	ErrNoLocation        = errors.New("navigation: no current location")
	ErrNotNavigating     = errors.New("navigation: session is not navigating")
	ErrAlreadyNavigating = errors.New("navigation: session is already navigating")
	ErrEmptyRoute        = errors.New("navigation: route has no steps")
	// ErrStaleResult hasil fetch yang datang setelah session berubah (cancel, arrive, atau request sudah diganti).
	ErrStaleResult = errors.New("navigation: stale route result discarded")
)
