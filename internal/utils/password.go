package utils

import "golang.org/x/crypto/bcrypt"

// passwordCost is lowered by tests through SetPasswordCost.
var passwordCost = 12

func SetPasswordCost(cost int) { passwordCost = cost }

// HashPassword generates a bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	return string(bytes), err
}

// CheckPasswordHash compares a plaintext password with a stored bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
