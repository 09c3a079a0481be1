package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Digest returns the hex sha256 of a file payload.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Registry remembers digests of payloads already accepted, so a workbook
// uploaded twice is stored and ingested once.
type Registry struct {
	mu   sync.Mutex
	seen map[string]string
}

func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]string)}
}

// Remember records data under name. It reports false when an identical
// payload was already registered, along with the first name it came in as.
func (r *Registry) Remember(name string, data []byte) (string, bool) {
	d := Digest(data)
	r.mu.Lock()
	defer r.mu.Unlock()
	if first, ok := r.seen[d]; ok {
		return first, false
	}
	r.seen[d] = name
	return name, true
}
