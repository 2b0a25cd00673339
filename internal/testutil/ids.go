package testutil

import (
	"time"

	"github.com/google/uuid"
)

// uuidFor derives a stable id from a name so fixtures are reproducible.
func uuidFor(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func testNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
