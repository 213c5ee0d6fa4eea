package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLabels(t *testing.T) {
	labels, y := NewLabels([]string{"gentoo", "adelie", "gentoo", "chinstrap"})

	assert.Equal(t, []string{"gentoo", "adelie", "chinstrap"}, labels.Names)
	assert.Equal(t, []int{0, 1, 0, 2}, y)
	assert.Equal(t, 3, labels.NumClasses())
	assert.Equal(t, "adelie", labels.Name(1))
	assert.Equal(t, "?", labels.Name(-1))
	assert.Equal(t, "?", labels.Name(3))
}

func TestNewLabelsEmpty(t *testing.T) {
	labels, y := NewLabels(nil)
	assert.Equal(t, 0, labels.NumClasses())
	assert.Empty(t, y)
}
