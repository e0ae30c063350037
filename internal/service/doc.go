// Package service implements the application operations of the marketplace:
// account registration, login and profile updates, and the item catalog.
//
// Services validate input with the domain package, bound every store call
// with the configured query timeout, and translate store failures into the
// sentinel errors declared in errors.go, which the API layer maps to HTTP
// status codes.
package service
