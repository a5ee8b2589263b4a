package compress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressPercent(t *testing.T) {
	d := 10 * time.Second
	tests := []struct {
		name     string
		elapsed  time.Duration
		duration time.Duration
		want     int
	}{
		{"start", 0, d, 0},
		{"half", 5 * time.Second, d, 50},
		{"rounds down", 2999 * time.Millisecond, d, 29},
		{"done", d, d, 100},
		{"overshoot clamps", 12 * time.Second, d, 100},
		{"unknown duration", time.Second, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProgressPercent(tt.elapsed, tt.duration))
		})
	}
}
