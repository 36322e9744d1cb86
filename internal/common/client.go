package common

import (
	"crypto/sha256"
	"sync"

	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
)

var (
	clientIdentifierOnce sync.Once
	clientIdentifier     uuid.UUID
)

// GetClientIdentifier returns a UUID that uniquely identifies this system.
// It uses the machine's hardware ID to generate a consistent, system-specific UUID.
func GetClientIdentifier() uuid.UUID {

	clientIdentifierOnce.Do(func() {
		id, err := machineid.ProtectedID("atlantic")
		if err != nil {
			// Fallback to a random ephemeral UUID if machine ID cannot be obtained
			clientIdentifier = uuid.New()
			return
		}

		// Hash the machine ID and convert to UUID format
		hash := sha256.Sum256([]byte(id))
		clientIdentifier = uuid.UUID(hash[:16])
	})

	return clientIdentifier
}
