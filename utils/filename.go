package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadName builds the stored name for an uploaded file:
// <epoch-millis>-<original>, or <epoch-millis>-<8 hex>-<original> when
// randomSuffix is set. The original name is kept as is.
func UploadName(now time.Time, original string, randomSuffix bool) string {
	millis := strconv.FormatInt(now.UnixMilli(), 10)
	if !randomSuffix {
		return millis + "-" + original
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return millis + "-" + suffix + "-" + original
}
