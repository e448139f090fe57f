package util

import (
	"strings"

	"github.com/google/uuid"
)

// NewSessionToken returns an opaque token identifying a guest session.
func NewSessionToken() string {
	return uuid.New().String()
}

// NewOrderNumber returns a short human-quotable order reference.
func NewOrderNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "ORD-" + id[:12]
}
