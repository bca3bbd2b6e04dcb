package service

import "context"

// Authenticator decides who a request belongs to and what it may do
type Authenticator interface {
	// VerifyCredentials reports whether login/password identify a known user
	VerifyCredentials(ctx context.Context, login, password string) (bool, error)

	// RolesFor returns the role names of the given user
	RolesFor(ctx context.Context, login string) ([]string, error)
}
