// Package http provides HTTP handlers and middleware for the activity
// portal API.
//
// The router exposes the following endpoints:
//   - POST /sessions: issues a session credential. Body: {"email","password"}.
//     Response: {"token","expires_at","user"} with the token also set as a
//     `session_token` cookie.
//   - DELETE /sessions/current: clears the session cookie. Credentials are
//     self-contained and cannot be revoked server-side; logout is the client
//     discarding its copy.
//   - GET /activities: lists every weekly activity template. Unauthenticated.
//   - GET /activities/upcoming?limit=N: lists the soonest N concrete
//     occurrences in ascending order. Unauthenticated.
//   - POST /activities, PUT /activities/{id}, DELETE /activities/{id}:
//     administrator gated mutations. The credential travels in the
//     `session_token` cookie or an `Authorization: Bearer` header and is
//     verified by the application layer, not here.
//
// Request/response DTOs live alongside their respective handlers so tests
// and documentation share the same ground truth.
package http
