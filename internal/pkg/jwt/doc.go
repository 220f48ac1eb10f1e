// Package jwt verifies the HS512 access tokens issued by the identity
// service and carries the resulting claims through a request context.
//
// Generate exists so local tooling and tests can mint tokens with the same
// secret; this service never issues tokens to end users.
package jwt
