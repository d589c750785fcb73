// Package auth signs the studio owner in and out.
//
// Passwords are stored as bcrypt hashes. A successful [Service.Login] mints a random session token for the cookie;
// the database only ever sees the SHA-256 of that token, so a leaked sessions table cannot be replayed.
//
// Wrong emails and wrong passwords fail identically with [shared.ErrInvalidCredentials], and both paths pay for a bcrypt
// comparison. [Throttle] paces repeated attempts per client.
package auth
