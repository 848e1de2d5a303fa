package ports

// CredentialHasher is the one-way transform applied to secrets.
type CredentialHasher interface {
	Hash(secret string) (string, error)
	// Verify returns domain.ErrInvalidCredentialFormat when hash is malformed.
	Verify(secret, hash string) (bool, error)
	// NeedsRehash reports whether hash was produced with other parameters
	// than the ones Hash uses now.
	NeedsRehash(hash string) bool
}
