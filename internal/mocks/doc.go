// Package mocks provides centralized mock implementations for testing.
//
// Store mocks are built on testify/mock so tests can declare expectations
// with On(...).Return(...). Service and collaborator mocks use function
// fields with default return values, for example:
//
//	jwtService := &mocks.MockJWTService{
//	    Token: "mocked-token",
//	}
//
// When adding a new mock to this package, create a file named after the
// interface being mocked and add a compile-time assertion that the mock
// implements it.
package mocks
