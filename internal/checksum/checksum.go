// Package checksum computes content fingerprints.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/starford/aliasrunner/internal/models"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Aliases fingerprints an ordered alias list. Two lists have the same
// fingerprint only if every field of every record, and their order, match.
func Aliases(aliases []models.Alias) string {
	h := sha256.New()
	for _, a := range aliases {
		for _, f := range []string{a.Name, a.Body, a.Note, a.File, strconv.Itoa(a.Line)} {
			// Length-prefix each field so boundaries are unambiguous.
			h.Write([]byte(strconv.Itoa(len(f))))
			h.Write([]byte{':'})
			h.Write([]byte(f))
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
