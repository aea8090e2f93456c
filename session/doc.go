// Package session issues and verifies the admin session token carried in the
// admin_session cookie.
//
// Two token schemes are supported. ClaimIssuer signs a JWT carrying the
// admin's id and email with a seven day expiry. DigestIssuer produces a
// fixed HMAC digest of a static label, so every issued token is the same
// value until the secret changes; it exists for deployments that log in
// with a shared password only.
//
// Both refuse to work with a secret shorter than MinSecretLength: Issue
// returns ErrSecretMissing and Verify rejects every token.
package session
