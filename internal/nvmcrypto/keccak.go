// Package nvmcrypto provides the small set of hash primitives the engine's
// example host interop hook depends on. It is intentionally tiny: the VM
// core has no opinion on hashing, but SYSCALL needs at least one concrete
// host function to demonstrate the dispatch hook.
package nvmcrypto

import "golang.org/x/crypto/sha3"

// Keccak256 calculates the Keccak-256 hash of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}
