// Package auth implements the credential store, token issuance and
// verification, and the per-request token-refresh flow.
//
// Sign-up stores a user with a per-user random salt and an argon2id
// password hash. Sign-in validates credentials and issues a signed JWT.
// Guarded routes verify the bearer token, resolve the user from the
// store, and rotate the token on the way out by attaching a fresh
// Authorization header to the response.
package auth
