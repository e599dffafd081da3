package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"selection.changed", "selection.changed", true},
		{"selection.changed", "selection.*", true},
		{"object.geometry.changed", "object.*", false},
		{"object.geometry.changed", "object.**", true},
		{"object.geometry.changed", "**.changed", true},
		{"mode.changed", "*.changed", true},
		{"object", "object.**", true},
		{"anything.at.all", "**", true},
		{"selection.changed", "mode.*", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.topic.Matches(tt.pattern), "%q matches %q", tt.topic, tt.pattern)
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, Topic("a.b").IsValid())
	assert.False(t, Topic("").IsValid())
	assert.False(t, Topic("a..b").IsValid())
	assert.False(t, Topic(".a").IsValid())
	assert.Equal(t, Topic("object.geometry.changed"), Join("object", "geometry", "changed"))
}
