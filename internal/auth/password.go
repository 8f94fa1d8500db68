package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the work factor for password hashing. DefaultCost keeps a
// single verification well inside the request timeout while staying expensive
// enough to resist offline brute force.
const bcryptCost = bcrypt.DefaultCost

// HashPassword derives a salted bcrypt hash from the plaintext password.
// Calling it twice on the same input yields different hash strings.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether plain matches the stored hash. The comparison
// is constant time and the function is total: malformed hash strings simply
// verify as false instead of surfacing an error.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
