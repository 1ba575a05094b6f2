package requests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaultQueue(t *testing.T) {
	got := Parse(DefaultQueue, 200)
	assert.Equal(t, []int{98, 183, 37, 122, 14, 124, 65, 67}, got.Requests)
	assert.Empty(t, got.Rejected)
}

func TestParseKeepsDuplicatesAndOrder(t *testing.T) {
	got := Parse("5,5 ; 3\n5", 10)
	assert.Equal(t, []int{5, 5, 3, 5}, got.Requests)
}

func TestParseRejectsInvalidTokens(t *testing.T) {
	got := Parse("12, abc, 1.5, -3, 200, 199, ,", 200)
	assert.Equal(t, []int{12, 199}, got.Requests)
	require.Len(t, got.Rejected, 4)
	assert.Equal(t, "abc", got.Rejected[0].Token)
	assert.Equal(t, "not an integer", got.Rejected[0].Reason)
	assert.Equal(t, "1.5", got.Rejected[1].Token)
	assert.Equal(t, "-3", got.Rejected[2].Token)
	assert.Equal(t, "outside [0, 200)", got.Rejected[3].Reason)
}

func TestParseEmpty(t *testing.T) {
	got := Parse("   ", 200)
	assert.NotNil(t, got.Requests)
	assert.Empty(t, got.Requests)
	assert.Empty(t, got.Rejected)
}

func TestFormatRoundTrip(t *testing.T) {
	tracks := []int{98, 183, 37}
	assert.Equal(t, "98, 183, 37", Format(tracks))
	assert.Equal(t, tracks, Parse(Format(tracks), 200).Requests)
	assert.Equal(t, "", Format(nil))
}
