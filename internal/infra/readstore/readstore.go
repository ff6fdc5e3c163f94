// Package readstore implements the query side against Postgres.
package readstore

import sq "github.com/Masterminds/squirrel"

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
