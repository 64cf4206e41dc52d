package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/xy-planning-network/outpost"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// safeGORMSession forces a clean *gorm.DB for a query built off another.
var safeGORMSession = &gorm.Session{}

var errNilArg = errors.New("nil arg")

// A DB builds and runs queries against the catalog's tables,
// turning database failures into outpost errors.
//
// Query methods return a new *DB and chain;
// finishers (Create, Delete, Exists, Find, First, Update) run the query.
type DB struct {
	// Some *gorm.DB methods mutate the *gorm.DB they are called on.
	// Every query method here wraps the *gorm.DB gorm hands back instead.
	db *gorm.DB
}

// NewDB constructs a *DB from a *gorm.DB.
func NewDB(db *gorm.DB) *DB { return &DB{db: db} }

// DB exposes the *gorm.DB backing db, for what DB does not cover,
// such as managing associations.
func (db *DB) DB() *gorm.DB { return db.db }

// classify maps err, from running a query on v, to an outpost error.
func classify(err error, v any) error {
	msg := err.Error()
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %T", outpost.ErrNotFound, v)
	case errors.Is(err, schema.ErrUnsupportedDataType), errors.Is(err, gorm.ErrInvalidData):
		return fmt.Errorf("%w: %T is not a table", outpost.ErrMissingData, v)
	case errUniqViolation.MatchString(msg):
		return fmt.Errorf("%w: %s", outpost.ErrExists, err)
	case errFKViolation.MatchString(msg), errSQLSyntax.MatchString(msg):
		return fmt.Errorf("%w: %s", outpost.ErrNotValid, err)
	default:
		return fmt.Errorf("%w: %T: %s", outpost.ErrUnexpected, v, err)
	}
}

// Create inserts value, a pointer to a table's struct, filling in what the database generates.
//
// A duplicate of a unique column fails with outpost.ErrExists;
// a dangling foreign key with outpost.ErrNotValid.
func (db *DB) Create(value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %T must be a non-nil pointer or slice", outpost.ErrNotValid, value)
		}
	}()

	if db.db.Error != nil {
		return db.db.Error
	}

	if err := db.db.Session(&gorm.Session{FullSaveAssociations: false}).Create(value).Error; err != nil {
		return classify(err, value)
	}

	return nil
}

// Delete removes the records of value's table matching the query.
// Removing none fails with outpost.ErrNotFound.
func (db *DB) Delete(value any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	res := db.db.Delete(value)
	if res.Error != nil {
		return classify(res.Error, value)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %T", outpost.ErrNotFound, value)
	}

	return nil
}

// Exists reports whether any record matches the query.
func (db *DB) Exists() (bool, error) {
	if db.db.Error != nil {
		return false, db.db.Error
	}

	var count int64
	if err := db.db.Count(&count).Error; err != nil {
		return false, classify(err, db.db.Statement.Model)
	}

	return count > 0, nil
}

// Find scans every record matching the query into dest.
// Matching none leaves dest empty.
func (db *DB) Find(dest any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %T cannot be scanned into", outpost.ErrNotValid, dest)
		}
	}()

	if db.db.Error != nil {
		return db.db.Error
	}

	if err := db.db.Find(dest).Error; err != nil {
		return classify(err, dest)
	}

	return nil
}

// First scans the first record matching the query into dest.
// Matching none fails with outpost.ErrNotFound.
func (db *DB) First(dest any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	if err := db.db.First(dest).Error; err != nil {
		return classify(err, dest)
	}

	return nil
}

// Update sets values on every record matching the query.
// Updating none fails with outpost.ErrNotFound.
func (db *DB) Update(values Updates) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	if err := values.valid(); err != nil {
		return err
	}

	res := db.db.Updates(map[string]any(values))
	if res.Error != nil {
		return classify(res.Error, db.db.Statement.Model)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: no rows updated", outpost.ErrNotFound)
	}

	return nil
}

// Model sets the table queried to model's, e.g. Route → routes.
func (db *DB) Model(model any) *DB { return &DB{db: db.db.Model(model)} }

// Order sorts the query's records.
func (db *DB) Order(order string) *DB { return &DB{db: db.db.Order(order)} }

// Preload loads the association named after model's field alongside each record, e.g. Roles.
func (db *DB) Preload(association string) *DB { return &DB{db: db.db.Preload(association)} }

// WithContext aborts the query when ctx ends.
func (db *DB) WithContext(ctx context.Context) *DB { return &DB{db: db.db.WithContext(ctx)} }

// Where narrows the query with a condition holding at most one placeholder.
// More args, or a nil one, fail the query's finisher with outpost.ErrNotValid.
func (db *DB) Where(query any, args ...any) *DB {
	var err error
	switch {
	case len(args) > 1:
		err = fmt.Errorf("%w: Where supports one or none args", outpost.ErrNotValid)
	case len(args) == 1 && args[0] == nil:
		err = fmt.Errorf("%w: %w", outpost.ErrNotValid, errNilArg)
	}

	if err != nil {
		gdb := db.db.Session(safeGORMSession)
		_ = gdb.AddError(err)
		return &DB{db: gdb}
	}

	return &DB{db: db.db.Where(query, args...)}
}

// Transaction runs fn in a transaction, committing when fn returns nil and rolling back otherwise.
// fn's error is returned as is.
func (db *DB) Transaction(fn func(tx *DB) error) error {
	return db.db.Transaction(func(tx *gorm.DB) error { return fn(NewDB(tx)) })
}
