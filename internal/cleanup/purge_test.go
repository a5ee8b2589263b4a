package cleanup

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPurger_PurgeAll(t *testing.T) {
	store, dirs := newTestStore(t)
	p := NewPurger(dirs, store, discardLogger, nil)

	a := filepath.Join(dirs.Upload, "a.png")
	b := filepath.Join(dirs.Processed, "reduced_a.png")
	busy := filepath.Join(dirs.Processed, "reduced_busy.png")
	for _, f := range []string{a, b, busy} {
		writeAged(t, f, 0)
	}
	release := store.Lease(busy)
	defer release()

	rep := p.PurgeAll(context.Background())

	assert.ElementsMatch(t, []string{a, b}, rep.Removed)
	assert.Equal(t, []string{busy}, rep.Skipped)
	assert.FileExists(t, busy)
}

func TestPurger_DeletePair(t *testing.T) {
	store, dirs := newTestStore(t)
	p := NewPurger(dirs, store, discardLogger, nil)

	processed := filepath.Join(dirs.Processed, "reduced_x.pdf")
	original := filepath.Join(dirs.Upload, "x.pdf")
	writeAged(t, processed, 0)

	rep := p.DeletePair(context.Background(), processed, original)
	assert.Equal(t, []string{processed}, rep.Removed)
	assert.Empty(t, rep.Skipped)

	rep = p.DeletePair(context.Background(), processed, original)
	assert.Empty(t, rep.Removed)
}
