// Package identity talks to the remote identity backend on behalf of the
// client.
//
// Backend is the narrow capability the session layer depends on. GRPCClient
// implements it over the identityapi service and translates transport
// failures into *AuthError values whose messages are localized through the
// client catalog.
package identity
