package matchcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvenSampleReturnsAllWhenRangeSmall(t *testing.T) {
	assert.Equal(t, []int{5, 6}, EvenSample(5, 2, 3))
}

func TestEvenSampleSpreadsAcrossRange(t *testing.T) {
	got := EvenSample(0, 10, 3)
	assert.Equal(t, []int{0, 4, 9}, got)
}

func TestEvenSampleEmptyRange(t *testing.T) {
	assert.Nil(t, EvenSample(0, 0, 3))
}

func TestEvenSampleSingleSample(t *testing.T) {
	assert.Equal(t, []int{0}, EvenSample(0, 5, 1))
}
