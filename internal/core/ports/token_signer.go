package ports

// TokenSigner issues the signed access token attached to a user at creation.
// The claims are fixed: id, email and role.
type TokenSigner interface {
	Sign(id int64, email, role string) (string, error)
}
