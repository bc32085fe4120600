// Package auth is the authentication and authorization core for the Relato
// content platform (publications, comments, profiles).
//
// Server side:
//   - TokenCodec encodes and decodes the signed credential (HS256 JWT) and
//     reports typed failures: malformed, bad signature, expired.
//   - TokenIssuer validates login credentials against a UserStore and mints
//     a time-limited token. Unknown email and wrong password are deliberately
//     indistinguishable to callers.
//   - TokenVerifier extracts the bearer token from the Authorization header
//     and yields trusted claims or a typed failure. Verification failures map
//     to 401 and are terminal for the request.
//   - Policy checks (RequireRole, RequireOwnerOrAdmin) take verified claims
//     plus a Resource descriptor and decide allow/deny. Policy failures map
//     to 403, distinct from verification failures.
//
// Client side (package client):
//   - SessionGuard gates navigation using an unverified local decode of the
//     stored token. It is advisory only; the server re-asserts everything.
//   - AuthTransport attaches the stored token to outgoing requests and reacts
//     to a 401 by discarding the local session.
//
// The platform's stores (users, publications, comments) are reached through
// narrow interfaces; Bun-backed implementations live in repo_users.go and the
// examples server.
package auth
