package utils

import (
	"github.com/google/uuid"
)

// GenerateRunID returns the correlation id attached to every log line of a
// single command run (one load, one provision, ...).
func GenerateRunID() string {
	return uuid.New().String()
}
