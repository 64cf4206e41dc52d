package catalog_test

import (
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/catalog"
	"github.com/xy-planning-network/outpost/postgres"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *catalog.Service {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	db, err := postgres.Open(sqlite.Open(dsn), catalog.Migrations(), outpost.Testing)
	require.Nil(t, err)

	sqlDB, err := db.DB().DB()
	require.Nil(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return catalog.NewService(db, catalog.WithCost(bcrypt.MinCost))
}

func strPtr(s string) *string { return &s }

func uintPtr(u uint) *uint { return &u }

func itoa(u uint) string { return strconv.FormatUint(uint64(u), 10) }
