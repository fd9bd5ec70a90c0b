package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNumber builds a human-readable unique order number,
// e.g. "MP-20260829-4F2A1C".
func GenerateOrderNumber() string {
	suffix := strings.ToUpper(uuid.New().String()[:6])
	return fmt.Sprintf("MP-%s-%s", time.Now().Format("20060102"), suffix)
}

// GenerateSessionID issues an opaque id for anonymous storefront sessions.
func GenerateSessionID() string {
	return uuid.New().String()
}
