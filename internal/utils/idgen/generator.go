package idgen

import (
	"crypto/rand"
	"fmt"
)

// alphabet is lowercase alphanumeric so IDs survive URLs, logs and
// case-insensitive comparisons unchanged.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateSecureID builds a public resource ID of the form
// "<prefix>_<random>", e.g. "conv_x1f..." for conversations and
// "msg_9ab..." for messages. The random part is drawn from crypto/rand.
func GenerateSecureID(prefix string, length int) (string, error) {
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	id := make([]byte, length)
	for i, b := range raw {
		id[i] = alphabet[int(b)%len(alphabet)]
	}

	return fmt.Sprintf("%s_%s", prefix, id), nil
}
