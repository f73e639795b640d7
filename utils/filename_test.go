package utils

import (
	"regexp"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestUploadName(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	assert.Equal(t, UploadName(now, "cat.png", false), "1700000000123-cat.png")
	assert.Equal(t, UploadName(now, "my photo (1).JPG", false), "1700000000123-my photo (1).JPG")
}

func TestUploadNameRandomSuffix(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	first := UploadName(now, "cat.png", true)
	second := UploadName(now, "cat.png", true)

	assert.Assert(t, regexp.MustCompile(`^1700000000123-[0-9a-f]{8}-cat\.png$`).MatchString(first), first)
	assert.Assert(t, first != second)
}
