package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNote_PlainText(t *testing.T) {
	n := &Note{Content: "<p>Plan the <b>release</b></p>"}
	assert.Equal(t, "Plan the release", n.PlainText())
}

func TestNote_NeedsDigest(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	earlier := base.Add(-time.Hour)
	later := base.Add(time.Hour)

	assert.True(t, (&Note{UpdatedAt: base}).NeedsDigest(), "never digested")
	assert.True(t, (&Note{UpdatedAt: base, DigestedAt: &earlier}).NeedsDigest(), "edited after digest")
	assert.False(t, (&Note{UpdatedAt: base, DigestedAt: &later}).NeedsDigest(), "digest is current")
	assert.False(t, (&Note{UpdatedAt: base, DigestedAt: &base}).NeedsDigest(), "same instant")
}
