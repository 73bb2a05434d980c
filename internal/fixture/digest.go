package fixture

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/roach88/chemcheck/internal/record"
)

// DomainFixture separates fixture digests from any other hash in the system.
// The version suffix changes whenever the canonical format does.
const DomainFixture = "chemcheck/fixture/v1"

// Digest returns the content hash of the canonical form of mols.
// Format: hex(SHA256(domain + 0x00 + canonical bytes)).
func Digest(mols []record.MoleculeRecord) string {
	h := sha256.New()
	h.Write([]byte(DomainFixture))
	h.Write([]byte{0x00})
	h.Write(Marshal(mols))
	return hex.EncodeToString(h.Sum(nil))
}
