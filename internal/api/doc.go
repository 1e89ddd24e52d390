// Package api exposes the study services over a local JSON API. Handlers
// decode and validate requests, call the owner-scoped services with the
// authenticated user's id and map service errors to HTTP responses.
package api
