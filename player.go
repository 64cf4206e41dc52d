package outpost

import (
	"fmt"
	"strings"
)

// MinPasswordLength is the shortest password Credentials accept when registering.
const MinPasswordLength = 8

// Credentials identify a player logging in or registering.
type Credentials struct {
	Pseudo   string `json:"pseudo"`
	Password string `json:"password"`
}

// Valid asserts both fields are filled in.
func (c Credentials) Valid() error {
	if strings.TrimSpace(c.Pseudo) == "" || c.Password == "" {
		return fmt.Errorf("%w: pseudo and password are required", ErrMissingData)
	}

	return nil
}

// ValidNew asserts Credentials can register a new player.
func (c Credentials) ValidNew() error {
	if err := c.Valid(); err != nil {
		return err
	}

	if len(c.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrNotValid, MinPasswordLength)
	}

	return nil
}

// A LoginResponse carries the token a player authenticates later requests with.
type LoginResponse struct {
	Pseudo string `json:"pseudo"`
	Token  string `json:"token"`
}

// PlayerRoles is a player and the names of the roles they hold.
type PlayerRoles struct {
	ID     uint     `json:"id"`
	Pseudo string   `json:"pseudo"`
	Roles  []string `json:"roles"`
}

// HasRole reports whether the player holds role.
func (pr PlayerRoles) HasRole(role string) bool {
	for _, r := range pr.Roles {
		if r == role {
			return true
		}
	}

	return false
}
