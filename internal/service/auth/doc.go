// Package auth issues and verifies session tokens and hashes passwords.
// Tokens are HS256-signed JWTs valid for exactly one hour; passwords are
// hashed with bcrypt.
package auth
