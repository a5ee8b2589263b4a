package cleanup

import "time"

// backdateEpsilon pushes back-dated files strictly past the urgent threshold.
const backdateEpsilon = time.Second

// IsExpired reports whether a file modified at modifiedAt is at least threshold old at now.
func IsExpired(modifiedAt, now time.Time, threshold time.Duration) bool {
	return now.Sub(modifiedAt) >= threshold
}

// Thresholds are the two retention ages used for temporary files.
// A non-positive Urgent disables the urgent rule.
type Thresholds struct {
	Regular time.Duration
	Urgent  time.Duration
}

// Classify returns which threshold, if any, a file modified at modifiedAt has passed.
func (t Thresholds) Classify(modifiedAt, now time.Time) (reason string, expired bool) {
	if IsExpired(modifiedAt, now, t.Regular) {
		return "regular", true
	}
	if t.Urgent > 0 && IsExpired(modifiedAt, now, t.Urgent) {
		return "urgent", true
	}
	return "", false
}

// ChunkThreshold is the age after which an unfinished chunk set is abandoned.
func (t Thresholds) ChunkThreshold() time.Duration {
	return t.Regular / 2
}

// Backdate returns the modification time that makes a file eligible for the next sweep.
func (t Thresholds) Backdate(now time.Time) time.Time {
	if t.Urgent > 0 {
		return now.Add(-t.Urgent - backdateEpsilon)
	}
	return now.Add(-t.Regular - backdateEpsilon)
}
