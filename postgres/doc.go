/*
Package postgres manages the catalog's database connection.
Connecting runs every migration not yet run against the database.

A [DB] wraps *gorm.DB with chainable query building methods
and finisher methods translating database failures into outpost's errors:
a unique violation is outpost.ErrExists, no rows is outpost.ErrNotFound, and so on.
*/
package postgres
