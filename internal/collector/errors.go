package collector

import "fmt"

// CollectError wraps a failure while collecting a feed. Any page failure aborts that feed.
type CollectError struct {
	Feed   string
	Offset int // -1 when the feed handle could not be resolved
	Cause  error
}

func (e *CollectError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("collect %s: resolve feed: %v", e.Feed, e.Cause)
	}
	return fmt.Sprintf("collect %s at offset %d: %v", e.Feed, e.Offset, e.Cause)
}

func (e *CollectError) Unwrap() error {
	return e.Cause
}
