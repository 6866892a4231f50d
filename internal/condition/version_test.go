package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "1.0.0", 0},
		{"v1.2", "1.2", 0},
		{"1.10", "1.9", 1},
		{"1.2.0416", "1.2.416", 0},
		{"2", "10", -1},
		{"1.0-beta", "1.0-alpha", 1},
		{"1.0a", "1.0", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareVersions(tt.a, tt.b))
			assert.Equal(t, -tt.want, CompareVersions(tt.b, tt.a))
		})
	}
}
