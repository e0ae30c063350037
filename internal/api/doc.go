// Package api handles incoming HTTP requests, request validation and
// response formatting for the account and catalog endpoints. It adapts
// HTTP to the service layer and maps service errors to status codes in
// a single place (errors.go).
package api
