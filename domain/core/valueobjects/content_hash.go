package valueobjects

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ContentHash identifies a stored string by the SHA-256 of its exact bytes.
// Two values share a ContentHash only if they are byte-for-byte equal.
type ContentHash struct {
	value string
}

// NewContentHash hashes value without any normalisation
func NewContentHash(value string) ContentHash {
	sum := sha256.Sum256([]byte(value))
	return ContentHash{value: hex.EncodeToString(sum[:])}
}

// NewContentHashFromString restores a ContentHash read back from storage
func NewContentHashFromString(id string) (ContentHash, error) {
	if id == "" {
		return ContentHash{}, errors.New("content hash cannot be empty")
	}
	if len(id) != sha256.Size*2 {
		return ContentHash{}, errors.New("content hash must be a hex encoded SHA-256 digest")
	}
	if _, err := hex.DecodeString(id); err != nil {
		return ContentHash{}, errors.New("content hash must be a hex encoded SHA-256 digest")
	}
	for _, r := range id {
		if r >= 'A' && r <= 'F' {
			return ContentHash{}, errors.New("content hash must be lowercase")
		}
	}
	return ContentHash{value: id}, nil
}

// String returns the lowercase hex digest
func (h ContentHash) String() string {
	return h.value
}

// Equals checks if two hashes are equal
func (h ContentHash) Equals(other ContentHash) bool {
	return h.value == other.value
}

// IsZero checks if the hash is the zero value
func (h ContentHash) IsZero() bool {
	return h.value == ""
}

// MarshalJSON implements json.Marshaler
func (h ContentHash) MarshalJSON() ([]byte, error) {
	return []byte(`"` + h.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (h *ContentHash) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("ContentHash must be a string")
	}
	parsed, err := NewContentHashFromString(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
