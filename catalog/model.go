package catalog

import (
	"time"

	"github.com/xy-planning-network/outpost"
)

const (
	// AdminRole grants access to the catalog's administration endpoints.
	AdminRole = "ADMIN"

	// PlayerRole is granted to every player on registering.
	PlayerRole = "PLAYER"
)

// A Role is a named permission players hold and routes require.
type Role struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

// A Route is a navigable route of the console.
type Route struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"uniqueIndex;not null"`
	ComponentPath string `gorm:"not null"`
	NeedAuth      bool   `gorm:"not null;default:false"`
	RoleID        *uint
	Role          *Role `gorm:"constraint:OnDelete:SET NULL"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Descriptor exposes r as navigation consumes it.
func (r Route) Descriptor() outpost.RouteDescriptor {
	id := r.ID
	rd := outpost.RouteDescriptor{
		ID:            &id,
		Name:          r.Name,
		ComponentPath: r.ComponentPath,
		NeedAuth:      r.NeedAuth,
	}

	if r.Role != nil {
		name := r.Role.Name
		rd.RoleName = &name
	}

	return rd
}

// availableTo reports whether the player, nil when anonymous, is offered r.
// Anonymous players are offered routes needing auth but no role so the console
// can send them to sign in.
func (r Route) availableTo(player *outpost.PlayerRoles) bool {
	switch {
	case !r.NeedAuth, r.Role == nil:
		return true
	case player == nil:
		return false
	default:
		return player.HasRole(r.Role.Name)
	}
}

// A Player is someone logging into the console.
type Player struct {
	ID        uint   `gorm:"primaryKey"`
	Pseudo    string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	Roles     []Role `gorm:"many2many:player_roles"`
	CreatedAt time.Time
}

// PlayerRoles exposes p without its password hash.
func (p Player) PlayerRoles() outpost.PlayerRoles {
	names := make([]string, len(p.Roles))
	for i, role := range p.Roles {
		names[i] = role.Name
	}

	return outpost.PlayerRoles{ID: p.ID, Pseudo: p.Pseudo, Roles: names}
}
