package models

// User is a registered author. Passwords are stored as bcrypt hashes only;
// the JSON key stays "password" so existing data files keep loading.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password"`
}
