package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		literal string
		marker  string
		want    string
	}{
		{name: "substituted literal wins", literal: "3.4.1", marker: "3.4.0\n", want: "3.4.1"},
		{name: "placeholder falls back to marker", literal: Placeholder, marker: "3.4.0\n", want: "3.4.0"},
		{name: "empty literal falls back to marker", literal: "", marker: "  3.5.0-dev  ", want: "3.5.0-dev"},
		{name: "nothing known", literal: Placeholder, marker: "", want: Development},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.literal, []byte(tt.marker)))
		})
	}
}

func TestIsRelease(t *testing.T) {
	assert.True(t, IsRelease("3.4.1"))
	assert.True(t, IsRelease("v3.4.1"))
	assert.False(t, IsRelease(""))
	assert.False(t, IsRelease(Development))
	assert.False(t, IsRelease(Placeholder))
	assert.False(t, IsRelease("3.5.0-dev"))
	assert.False(t, IsRelease("nightly"))
	assert.True(t, IsRelease("3.5.0-rc.1"))
}
