package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/http/client"
	"github.com/xy-planning-network/outpost/spritecache"
)

func TestAuthService(t *testing.T) {
	// Arrange
	r := mux.NewRouter()
	r.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds outpost.Credentials
		require.Nil(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		if creds.Password != "precious1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "BAD_CREDENTIALS"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": outpost.LoginResponse{Pseudo: creds.Pseudo, Token: "abc"}})
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}).Methods(http.MethodPost)

	f := newFixture(t, r)
	ctx := context.Background()

	// Act
	_, err := f.client.Auth.Login(ctx, outpost.Credentials{Pseudo: "frodo", Password: "wrong"})

	// Assert
	require.ErrorIs(t, err, client.ErrUnauthorized)
	require.False(t, f.store.Authenticated())

	// Act
	lr, err := f.client.Auth.Login(ctx, outpost.Credentials{Pseudo: "frodo", Password: "precious1"})

	// Assert
	require.Nil(t, err)
	require.Equal(t, "abc", lr.Token)
	require.Equal(t, "frodo", f.store.State().Pseudo)
	require.Equal(t, "abc", f.store.Token())

	// Act
	err = f.client.Auth.Register(ctx, outpost.Credentials{Pseudo: "sam", Password: "short"})

	// Assert
	require.ErrorIs(t, err, outpost.ErrNotValid)

	// Act
	err = f.client.Auth.Register(ctx, outpost.Credentials{Pseudo: "sam", Password: "potatoes"})

	// Assert
	require.Nil(t, err)

	// Act
	err = f.client.Auth.Logout(ctx)

	// Assert
	require.Nil(t, err)
	require.False(t, f.store.Authenticated())
}

func TestRoutesService(t *testing.T) {
	// Arrange
	var deleted string
	r := mux.NewRouter()
	r.HandleFunc("/api/routes", func(w http.ResponseWriter, r *http.Request) {
		var rd outpost.RouteDescriptor
		require.Nil(t, json.NewDecoder(r.Body).Decode(&rd))
		if rd.ID == nil {
			id := uint(7)
			rd.ID = &id
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": rd})
	}).Methods(http.MethodPost, http.MethodPut)
	r.HandleFunc("/api/routes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": []outpost.RouteDescriptor{{Name: "shop"}, {Name: "admin"}}})
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/routes/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = mux.Vars(r)["id"]
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodDelete)

	f := newFixture(t, r)
	ctx := context.Background()

	// Act
	rds, err := f.client.Routes.GetAll(ctx)

	// Assert
	require.Nil(t, err)
	require.Len(t, rds, 2)

	// Act
	created, err := f.client.Routes.Create(ctx, outpost.RouteDescriptor{Name: "shop", ComponentPath: "Shop.tmpl"})

	// Assert
	require.Nil(t, err)
	require.Equal(t, uint(7), *created.ID)

	// Act
	_, err = f.client.Routes.Update(ctx, outpost.RouteDescriptor{Name: "shop"})

	// Assert
	require.ErrorIs(t, err, outpost.ErrMissingData)

	// Act
	updated, err := f.client.Routes.Update(ctx, created)

	// Assert
	require.Nil(t, err)
	require.Equal(t, created, updated)

	// Act
	err = f.client.Routes.Remove(ctx, 7)

	// Assert
	require.Nil(t, err)
	require.Equal(t, "7", deleted)
}

func TestPlayersService(t *testing.T) {
	// Arrange
	r := mux.NewRouter()
	r.HandleFunc("/api/players/{id}/roles", func(w http.ResponseWriter, r *http.Request) {
		var roles []string
		require.Nil(t, json.NewDecoder(r.Body).Decode(&roles))
		writeJSON(w, http.StatusOK, map[string]any{"data": outpost.PlayerRoles{ID: 3, Pseudo: "sam", Roles: roles}})
	}).Methods(http.MethodPut)
	r.HandleFunc("/api/players", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": []outpost.PlayerRoles{{ID: 3, Pseudo: "sam"}}})
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/roles", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": []string{"ADMIN", "USER"}})
	}).Methods(http.MethodGet)

	f := newFixture(t, r)
	ctx := context.Background()

	// Act
	prs, err := f.client.Players.GetAll(ctx)

	// Assert
	require.Nil(t, err)
	require.Equal(t, "sam", prs[0].Pseudo)

	// Act
	pr, err := f.client.Players.UpdateRoles(ctx, 3, nil)

	// Assert
	require.Nil(t, err)
	require.Empty(t, pr.Roles)

	// Act
	pr, err = f.client.Players.UpdateRoles(ctx, 3, []string{"ADMIN"})

	// Assert
	require.Nil(t, err)
	require.True(t, pr.HasRole("ADMIN"))

	// Act
	roles, err := f.client.Roles.GetAll(ctx)

	// Assert
	require.Nil(t, err)
	require.Equal(t, []string{"ADMIN", "USER"}, roles)
}

func TestSpritesService(t *testing.T) {
	// Arrange
	var imageFetches, flips int32
	r := mux.NewRouter()
	r.PathPrefix("/api/sprite/sprite-storage/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&imageFetches, 1)
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte(strings.TrimPrefix(r.URL.Path, "/api/sprite/sprite-storage/")))
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/sprite/flip-horizontal/{id}", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&flips, 1)
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/sprite/delete/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodDelete)
	r.HandleFunc("/api/sprite", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.Nil(t, err)
		b, err := io.ReadAll(file)
		require.Nil(t, err)
		require.Equal(t, "zip bytes", string(b))
		writeJSON(w, http.StatusOK, map[string]any{"data": client.SpriteInfo{AnimationID: 1, Name: strings.TrimSuffix(header.Filename, ".zip")}})
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/sprite/save-frame-rate/{id}/{rate}", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "12", mux.Vars(r)["rate"])
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPut)

	sc := spritecache.New()
	f := newFixture(t, r, client.WithSpriteCache(sc))
	ctx := context.Background()

	// Act
	si, err := f.client.Sprites.Upload(ctx, "knight.zip", strings.NewReader("zip bytes"))

	// Assert
	require.Nil(t, err)
	require.Equal(t, "knight", si.Name)

	// Act
	first, err := f.client.Sprites.Image(ctx, "knight/idle.png")
	require.Nil(t, err)
	second, err := f.client.Sprites.Image(ctx, "knight/idle.png")
	require.Nil(t, err)
	_, err = f.client.Sprites.Image(ctx, "knight/run.png")
	require.Nil(t, err)

	// Assert
	require.Equal(t, "image/png", first.ContentType)
	require.Equal(t, "knight/idle.png", string(first.Data))
	require.Equal(t, first, second)
	require.Equal(t, int32(2), atomic.LoadInt32(&imageFetches))

	// Act
	err = f.client.Sprites.Flip(ctx, 1, "knight/idle.png")

	// Assert
	require.Nil(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&flips))
	require.Equal(t, 1, sc.Len())

	// Act
	err = f.client.Sprites.Delete(ctx, "knight")

	// Assert
	require.Nil(t, err)
	require.Equal(t, 0, sc.Len())

	// Act
	err = f.client.Sprites.SaveFrameRate(ctx, 1, 0)

	// Assert
	require.ErrorIs(t, err, outpost.ErrNotValid)

	// Act
	err = f.client.Sprites.SaveFrameRate(ctx, 1, 12)

	// Assert
	require.Nil(t, err)
}
