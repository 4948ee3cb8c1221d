// Package api exposes the HTTP surface of the flashdeck server: auth,
// deck management, study sessions, teacher invitations, live quiz rooms,
// and AI draft generation. Handlers decode and validate requests, call
// the matching service, and map service errors to status codes; they
// hold no business rules of their own.
package api
