// Package tasks implements a task-management backend whose core is a
// stateful authentication and authorization layer.
//
// Sessions:
//   - Bearer tokens are HS256 JWTs carrying the account id. A token is only
//     honored while it is present in the account's persisted session set, so
//     logout and password changes revoke outstanding tokens immediately even
//     though the tokens themselves are self-contained.
//
// Invitations:
//   - Registration is invite-only. Admins mint short-lived invite tokens
//     bound to an email; the invitation ledger keeps at most one active
//     invite per email, and re-inviting supersedes the previous token.
//
// Password reset:
//   - Reset requests hand the caller a high-entropy one-time secret; only
//     its digest and a ten-minute expiry are persisted. Redemption rotates
//     the password and replaces the whole session set with a single fresh
//     token, logging the account out everywhere else.
package tasks
