package auth

import (
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// User is an authenticated principal. Federated users come from an external identity provider
// and have no local password.
type User struct {
	ID        string
	Username  string
	Email     string
	Role      Role
	Federated bool
}

// Account is a local user together with its bcrypt password hash.
type Account struct {
	User
	PasswordHash []byte
}

// FederatedIDPrefix namespaces federated user ids so a provider subject never collides with a
// local account id.
const FederatedIDPrefix = "federated:"

// Identity is what an external provider reports after a successful sign-in.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Role    Role
}

// DisplayName picks the provider name, then the local part of the email, then a generic label.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}

	if local, _, _ := strings.Cut(i.Email, "@"); local != "" {
		return local
	}

	return "user"
}

func (i Identity) user(role Role) User {
	return User{
		ID:        FederatedIDPrefix + i.Subject,
		Username:  i.DisplayName(),
		Email:     i.Email,
		Role:      role,
		Federated: true,
	}
}

// PendingIdentity is a federated sign-in that still has to pick a role.
type PendingIdentity struct {
	ID       string
	Identity Identity
}

type RegisterResult struct {
	Success bool
	Message string
}
