package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/postgres"
	"golang.org/x/crypto/bcrypt"
)

// A Service manages the route catalog, its players and their roles.
type Service struct {
	cost int
	db   *postgres.DB
}

// A ServiceOpt configures a Service.
type ServiceOpt func(*Service)

// WithCost sets the bcrypt cost passwords are hashed with.
func WithCost(cost int) ServiceOpt {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

// NewService constructs a Service persisting to db.
func NewService(db *postgres.DB, opts ...ServiceOpt) *Service {
	s := &Service{cost: bcrypt.DefaultCost, db: db}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// **************************************************************************
// ROUTES
// **************************************************************************

// Available lists the routes player may navigate to, ordered by ID.
// A nil player is anonymous.
func (s *Service) Available(ctx context.Context, player *outpost.PlayerRoles) ([]outpost.RouteDescriptor, error) {
	routes, err := s.routes(ctx)
	if err != nil {
		return nil, err
	}

	rds := make([]outpost.RouteDescriptor, 0, len(routes))
	for _, route := range routes {
		if route.availableTo(player) {
			rds = append(rds, route.Descriptor())
		}
	}

	return rds, nil
}

// All lists every route, ordered by ID.
func (s *Service) All(ctx context.Context) ([]outpost.RouteDescriptor, error) {
	routes, err := s.routes(ctx)
	if err != nil {
		return nil, err
	}

	rds := make([]outpost.RouteDescriptor, len(routes))
	for i, route := range routes {
		rds[i] = route.Descriptor()
	}

	return rds, nil
}

func (s *Service) routes(ctx context.Context) ([]Route, error) {
	var routes []Route
	if err := s.db.WithContext(ctx).Preload("Role").Order("id").Find(&routes); err != nil {
		return nil, fmt.Errorf("failed fetching routes: %w", err)
	}

	return routes, nil
}

// Create adds rd to the catalog.
//
// If a route already goes by rd.Name, Create returns outpost.ErrExists.
// If rd names a role that does not exist, Create returns outpost.ErrNotValid.
func (s *Service) Create(ctx context.Context, rd outpost.RouteDescriptor) (outpost.RouteDescriptor, error) {
	db := s.db.WithContext(ctx)
	route, err := routeFrom(db, rd)
	if err != nil {
		return outpost.RouteDescriptor{}, err
	}

	if err := nameFree(db, route.Name, 0); err != nil {
		return outpost.RouteDescriptor{}, err
	}

	role := route.Role
	route.Role = nil
	if err := db.Create(&route); err != nil {
		return outpost.RouteDescriptor{}, fmt.Errorf("failed creating route %q: %w", route.Name, err)
	}
	route.Role = role

	return route.Descriptor(), nil
}

// Update replaces the route identified by rd.ID with rd.
//
// Without rd.ID, Update returns outpost.ErrMissingData;
// with one matching no route, outpost.ErrNotFound.
// Otherwise Update validates rd as Create does.
func (s *Service) Update(ctx context.Context, rd outpost.RouteDescriptor) (outpost.RouteDescriptor, error) {
	if rd.ID == nil {
		return outpost.RouteDescriptor{}, fmt.Errorf("%w: route id", outpost.ErrMissingData)
	}

	db := s.db.WithContext(ctx)
	var existing Route
	if err := db.Where("id = ?", *rd.ID).First(&existing); err != nil {
		return outpost.RouteDescriptor{}, fmt.Errorf("failed fetching route %d: %w", *rd.ID, err)
	}

	route, err := routeFrom(db, rd)
	if err != nil {
		return outpost.RouteDescriptor{}, err
	}
	route.ID = existing.ID

	if route.Name != existing.Name {
		if err := nameFree(db, route.Name, route.ID); err != nil {
			return outpost.RouteDescriptor{}, err
		}
	}

	err = db.Model(&Route{}).Where("id = ?", route.ID).Update(postgres.Updates{
		"name":           route.Name,
		"component_path": route.ComponentPath,
		"need_auth":      route.NeedAuth,
		"role_id":        route.RoleID,
	})
	if err != nil {
		return outpost.RouteDescriptor{}, fmt.Errorf("failed updating route %d: %w", route.ID, err)
	}

	return route.Descriptor(), nil
}

// Delete removes the route identified by id.
// If none is, Delete returns outpost.ErrNotFound.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Route{}); err != nil {
		return fmt.Errorf("failed deleting route %d: %w", id, err)
	}

	return nil
}

// routeFrom builds the Route rd describes, looking up the role it requires.
func routeFrom(db *postgres.DB, rd outpost.RouteDescriptor) (Route, error) {
	route := Route{
		Name:          strings.TrimSpace(rd.Name),
		ComponentPath: strings.TrimSpace(rd.ComponentPath),
		NeedAuth:      rd.NeedAuth,
	}

	if err := (outpost.RouteDescriptor{Name: route.Name}).Valid(); err != nil {
		return Route{}, fmt.Errorf("%w: route name %q", err, rd.Name)
	}

	if route.ComponentPath == "" {
		return Route{}, fmt.Errorf("%w: route component path", outpost.ErrMissingData)
	}

	// Only routes needing authentication keep a role.
	roleName := strings.TrimSpace(rd.Role())
	if roleName == "" || !rd.NeedAuth {
		return route, nil
	}

	role := new(Role)
	err := db.Where("name = ?", roleName).First(role)
	if errors.Is(err, outpost.ErrNotFound) {
		return Route{}, fmt.Errorf("%w: unknown role %q", outpost.ErrNotValid, roleName)
	}

	if err != nil {
		return Route{}, err
	}

	route.Role = role
	route.RoleID = &role.ID

	return route, nil
}

// nameFree asserts no route other than the one identified by exclude goes by name.
func nameFree(db *postgres.DB, name string, exclude uint) error {
	q := db.Model(&Route{}).Where("name = ?", name)
	if exclude != 0 {
		q = q.Where("id <> ?", exclude)
	}

	taken, err := q.Exists()
	if err != nil {
		return err
	}

	if taken {
		return fmt.Errorf("%w: route %q", outpost.ErrExists, name)
	}

	return nil
}

// **************************************************************************
// PLAYERS
// **************************************************************************

// Register creates a player from creds holding the PLAYER role.
//
// If the pseudo is taken, Register returns outpost.ErrExists.
func (s *Service) Register(ctx context.Context, creds outpost.Credentials) (outpost.PlayerRoles, error) {
	if err := creds.ValidNew(); err != nil {
		return outpost.PlayerRoles{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.cost)
	if err != nil {
		return outpost.PlayerRoles{}, fmt.Errorf("%w: failed hashing password: %s", outpost.ErrNotValid, err)
	}

	player := Player{Pseudo: strings.TrimSpace(creds.Pseudo), Password: string(hash)}
	err = s.db.WithContext(ctx).Transaction(func(tx *postgres.DB) error {
		taken, err := tx.Model(&Player{}).Where("pseudo = ?", player.Pseudo).Exists()
		if err != nil {
			return err
		}

		if taken {
			return fmt.Errorf("%w: pseudo %q", outpost.ErrExists, player.Pseudo)
		}

		role, err := findOrCreateRole(tx, PlayerRole)
		if err != nil {
			return err
		}
		player.Roles = []Role{role}

		return tx.Create(&player)
	})
	if err != nil {
		return outpost.PlayerRoles{}, fmt.Errorf("failed registering %q: %w", player.Pseudo, err)
	}

	return player.PlayerRoles(), nil
}

func findOrCreateRole(db *postgres.DB, name string) (Role, error) {
	var role Role
	err := db.Where("name = ?", name).First(&role)
	if errors.Is(err, outpost.ErrNotFound) {
		role.Name = name
		err = db.Create(&role)
	}

	return role, err
}

// Login checks creds against the stored password hash.
//
// A wrong pseudo or password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, creds outpost.Credentials) (outpost.PlayerRoles, error) {
	if err := creds.Valid(); err != nil {
		return outpost.PlayerRoles{}, err
	}

	player, err := s.player(ctx, strings.TrimSpace(creds.Pseudo))
	if errors.Is(err, outpost.ErrNotFound) {
		return outpost.PlayerRoles{}, ErrInvalidCredentials
	}

	if err != nil {
		return outpost.PlayerRoles{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(player.Password), []byte(creds.Password)); err != nil {
		return outpost.PlayerRoles{}, ErrInvalidCredentials
	}

	return player.PlayerRoles(), nil
}

// Player fetches the player going by pseudo.
func (s *Service) Player(ctx context.Context, pseudo string) (outpost.PlayerRoles, error) {
	player, err := s.player(ctx, pseudo)
	if err != nil {
		return outpost.PlayerRoles{}, err
	}

	return player.PlayerRoles(), nil
}

func (s *Service) player(ctx context.Context, pseudo string) (Player, error) {
	var player Player
	if err := s.db.WithContext(ctx).Preload("Roles").Where("pseudo = ?", pseudo).First(&player); err != nil {
		return Player{}, fmt.Errorf("failed fetching player %q: %w", pseudo, err)
	}

	return player, nil
}

// Players lists every player, ordered by ID.
func (s *Service) Players(ctx context.Context) ([]outpost.PlayerRoles, error) {
	var players []Player
	if err := s.db.WithContext(ctx).Preload("Roles").Order("id").Find(&players); err != nil {
		return nil, fmt.Errorf("failed fetching players: %w", err)
	}

	prs := make([]outpost.PlayerRoles, len(players))
	for i, player := range players {
		prs[i] = player.PlayerRoles()
	}

	return prs, nil
}

// UpdateRoles replaces the roles of the player identified by id with those named.
// Names matching no role are ignored.
func (s *Service) UpdateRoles(ctx context.Context, id uint, names []string) (outpost.PlayerRoles, error) {
	var player Player
	err := s.db.WithContext(ctx).Transaction(func(tx *postgres.DB) error {
		if err := tx.Where("id = ?", id).First(&player); err != nil {
			return err
		}

		assoc := tx.DB().Model(&player).Association("Roles")
		if len(names) == 0 {
			return assoc.Clear()
		}

		var roles []Role
		if err := tx.Where("name IN ?", names).Find(&roles); err != nil {
			return err
		}

		return assoc.Replace(roles)
	})
	if err != nil {
		return outpost.PlayerRoles{}, fmt.Errorf("failed updating roles of player %d: %w", id, err)
	}

	return s.Player(ctx, player.Pseudo)
}

// GrantRole adds the role named to the player going by pseudo.
func (s *Service) GrantRole(ctx context.Context, pseudo, name string) (outpost.PlayerRoles, error) {
	player, err := s.player(ctx, pseudo)
	if err != nil {
		return outpost.PlayerRoles{}, err
	}

	db := s.db.WithContext(ctx)
	var role Role
	err = db.Where("name = ?", name).First(&role)
	if errors.Is(err, outpost.ErrNotFound) {
		return outpost.PlayerRoles{}, fmt.Errorf("%w: unknown role %q", outpost.ErrNotValid, name)
	}

	if err != nil {
		return outpost.PlayerRoles{}, err
	}

	if err := db.DB().Model(&player).Association("Roles").Append(&role); err != nil {
		return outpost.PlayerRoles{}, fmt.Errorf("%w: failed granting %s: %s", outpost.ErrUnexpected, name, err)
	}

	return s.Player(ctx, pseudo)
}

// Roles lists the name of every role, alphabetically.
func (s *Service) Roles(ctx context.Context) ([]string, error) {
	var roles []Role
	if err := s.db.WithContext(ctx).Order("name").Find(&roles); err != nil {
		return nil, fmt.Errorf("failed fetching roles: %w", err)
	}

	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = role.Name
	}

	return names, nil
}
