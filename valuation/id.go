package valuation

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var runIDs = struct {
	sync.Mutex
	entropy *ulid.MonotonicEntropy
}{entropy: ulid.Monotonic(rand.Reader, 0)}

// newRunID returns a ULID for a report. IDs made in the same millisecond
// still sort in creation order.
func newRunID(now time.Time) string {
	runIDs.Lock()
	defer runIDs.Unlock()
	return ulid.MustNew(ulid.Timestamp(now.UTC()), runIDs.entropy).String()
}
