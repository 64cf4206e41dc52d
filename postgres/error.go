package postgres

import "regexp"

var (
	// errSQLSyntax is a very loose aggregation of error codes
	// originating from PostgreSQL itself
	// that are some sort of syntax issue in the statement or datatype mismatch.
	//
	// Cf., https://www.postgresql.org/docs/current/errcodes-appendix.html
	errSQLSyntax = regexp.MustCompile(`SQLSTATE (42601|22P02)|SQL logic error`)

	errFKViolation   = regexp.MustCompile(`SQLSTATE 23503|FOREIGN KEY constraint failed`)
	errUniqViolation = regexp.MustCompile(`SQLSTATE 23505|UNIQUE constraint failed`)
)
