package domain

import (
	"strings"

	"github.com/google/uuid"
)

const tempIDPrefix = "tmp_"

// NewTempID returns an identifier for an optimistic entry that has not been
// confirmed by the gateway yet.
func NewTempID() string {
	return tempIDPrefix + uuid.NewString()
}

func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}
