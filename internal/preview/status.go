package preview

import (
	"sync"
	"time"

	"git.home.luguber.info/inful/sitegraph/internal/build"
)

// buildStatus tracks the last good build and the most recent error.
type buildStatus struct {
	mu        sync.RWMutex
	lastError error
	last      *build.Result
	builds    int
	failures  int
	lastBuild time.Time
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.failures++
	bs.lastBuild = time.Now()
}

func (bs *buildStatus) setSuccess(res *build.Result) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.last = res
	bs.builds++
	bs.lastBuild = time.Now()
}

// snapshot is a consistent copy of buildStatus.
type snapshot struct {
	LastError error
	Last      *build.Result
	Builds    int
	Failures  int
	LastBuild time.Time
}

func (bs *buildStatus) get() snapshot {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return snapshot{
		LastError: bs.lastError,
		Last:      bs.last,
		Builds:    bs.builds,
		Failures:  bs.failures,
		LastBuild: bs.lastBuild,
	}
}
