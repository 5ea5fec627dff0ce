package dispatch

import (
	"time"

	"golang.org/x/sys/unix"
)

// processCPUTime returns the coarse process-wide CPU time (user+system)
// consumed so far, mirroring the source's times(2)-based measurement. It's
// deliberately process-wide rather than per-goroutine: a coarse measure,
// not a precise per-request profile.
func processCPUTime() time.Duration {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	user := time.Duration(ru.Utime.Sec)*time.Second + time.Duration(int64(ru.Utime.Usec))*time.Microsecond
	sys := time.Duration(ru.Stime.Sec)*time.Second + time.Duration(int64(ru.Stime.Usec))*time.Microsecond
	return user + sys
}
