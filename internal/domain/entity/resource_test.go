package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeResources_DropsUnknownNames(t *testing.T) {
	resources := NormalizeResources([]string{"STEPS", "bogus", "steps"})

	assert.Equal(t, []Resource{ResourceSteps}, resources)
}

func TestNormalizeResources_EmptyFallsBackToDefault(t *testing.T) {
	resources := NormalizeResources(nil)

	assert.Equal(t, DefaultResources, resources)

	// A selection of only unknown names behaves like an empty selection.
	resources = NormalizeResources([]string{"vo2max"})
	assert.Equal(t, DefaultResources, resources)
}

func TestNormalizeResources_AllExpandsToVocabulary(t *testing.T) {
	resources := NormalizeResources([]string{"all"})

	assert.Equal(t, AllResources, resources)
}

func TestNormalizeResources_PreservesVocabularyOrder(t *testing.T) {
	resources := NormalizeResources([]string{"weight", "sleep", "steps"})

	assert.Equal(t, []Resource{ResourceSteps, ResourceSleep, ResourceWeight}, resources)
}

func TestNormalizeGranularity(t *testing.T) {
	assert.Equal(t, Granularity5Min, NormalizeGranularity("5min"))
	assert.Equal(t, Granularity15Min, NormalizeGranularity(" 15MIN "))
	assert.Equal(t, DefaultGranularity, NormalizeGranularity(""))
	assert.Equal(t, DefaultGranularity, NormalizeGranularity("30sec"))
}

func TestHasIntraday(t *testing.T) {
	assert.True(t, ResourceSteps.HasIntraday())
	assert.True(t, ResourceHeartRate.HasIntraday())
	assert.False(t, ResourceSleep.HasIntraday())
	assert.False(t, ResourceWeight.HasIntraday())
	assert.False(t, ResourceProfile.HasIntraday())
}
