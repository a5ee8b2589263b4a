package cleanup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_SchedulePairBackdates(t *testing.T) {
	store, dirs := newTestStore(t)
	sched := NewScheduler(store, testPolicy, time.Hour, 8, discardLogger, nil)

	processed := filepath.Join(dirs.Processed, "reduced_a.png")
	original := filepath.Join(dirs.Upload, "a.png")
	writeAged(t, processed, 0)
	writeAged(t, original, 0)

	assert.True(t, sched.SchedulePair(processed, original))
	assert.Equal(t, 1, sched.Pending())

	for _, p := range []string{processed, original} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		reason, expired := testPolicy.Classify(info.ModTime(), time.Now())
		assert.True(t, expired, p)
		assert.Equal(t, "urgent", reason)
	}

	sw := NewSweeper(dirs, store, nil, testPolicy, time.Minute, discardLogger, nil)
	rep := sw.Sweep(t.Context(), time.Now())
	assert.ElementsMatch(t, []string{processed, original}, rep.Removed)

	sched.Stop()
}

func TestScheduler_DeletesAfterGrace(t *testing.T) {
	store, dirs := newTestStore(t)
	sched := NewScheduler(store, testPolicy, 20*time.Millisecond, 8, discardLogger, nil)
	sched.Start()
	defer sched.Stop()

	processed := filepath.Join(dirs.Processed, "reduced_b.png")
	original := filepath.Join(dirs.Upload, "b.png")
	writeAged(t, processed, 0)
	writeAged(t, original, 0)

	require.True(t, sched.SchedulePair(processed, original))

	assert.Eventually(t, func() bool {
		_, err1 := os.Stat(processed)
		_, err2 := os.Stat(original)
		return os.IsNotExist(err1) && os.IsNotExist(err2)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_SkipsLeasedFile(t *testing.T) {
	store, dirs := newTestStore(t)
	sched := NewScheduler(store, testPolicy, time.Millisecond, 8, discardLogger, nil)

	processed := filepath.Join(dirs.Processed, "reduced_c.mp4")
	original := filepath.Join(dirs.Upload, "c.mp4")
	writeAged(t, processed, 0)
	writeAged(t, original, 0)

	release := store.Lease(processed)
	defer release()

	sched.Start()
	require.True(t, sched.SchedulePair(processed, original))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(original)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)

	sched.Stop()
	assert.FileExists(t, processed)
}

func TestScheduler_StopDrainsQueue(t *testing.T) {
	store, dirs := newTestStore(t)
	sched := NewScheduler(store, testPolicy, time.Hour, 8, discardLogger, nil)
	sched.Start()

	processed := filepath.Join(dirs.Processed, "reduced_d.png")
	writeAged(t, processed, 0)

	require.True(t, sched.SchedulePair(processed, filepath.Join(dirs.Upload, "missing.png")))

	sched.Stop()
	assert.NoFileExists(t, processed)
	assert.False(t, sched.SchedulePair(processed, ""))

	sched.Stop()
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	store, dirs := newTestStore(t)
	sched := NewScheduler(store, testPolicy, time.Hour, 8, discardLogger, nil)

	processed := filepath.Join(dirs.Processed, "reduced_e.png")
	writeAged(t, processed, 0)
	require.True(t, sched.SchedulePair(processed, ""))

	sched.Stop()
	assert.NoFileExists(t, processed)
}

func TestScheduler_QueueFull(t *testing.T) {
	store, dirs := newTestStore(t)
	sched := NewScheduler(store, testPolicy, time.Hour, 1, discardLogger, nil)
	defer sched.Stop()

	a := filepath.Join(dirs.Processed, "reduced_f.png")
	b := filepath.Join(dirs.Processed, "reduced_g.png")
	writeAged(t, a, 0)
	writeAged(t, b, 0)

	assert.True(t, sched.SchedulePair(a, ""))
	assert.False(t, sched.SchedulePair(b, ""))

	info, err := os.Stat(b)
	require.NoError(t, err)
	_, expired := testPolicy.Classify(info.ModTime(), time.Now())
	assert.True(t, expired)
}
