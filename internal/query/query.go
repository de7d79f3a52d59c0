// Package query turns list endpoint parameters (search terms and ordering
// keys) into gorm clauses.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ordering applies a comma separated list of sort keys such as
// "-start_date,budget". Only keys present in allowed are honoured; allowed
// maps the public key to its column. Unknown keys are ignored and the
// fallback order is used when nothing valid remains.
func Ordering(db *gorm.DB, ordering string, allowed map[string]string, fallback ...string) *gorm.DB {
	var columns []clause.OrderByColumn
	for _, key := range strings.Split(ordering, ",") {
		key = strings.TrimSpace(key)
		desc := strings.HasPrefix(key, "-")
		column, ok := allowed[strings.TrimPrefix(key, "-")]
		if !ok {
			continue
		}
		columns = append(columns, clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
	}

	if len(columns) == 0 {
		for _, f := range fallback {
			db = db.Order(f)
		}
		return db
	}
	return db.Order(clause.OrderBy{Columns: columns})
}

// Search matches term as a case-insensitive substring of any of columns.
func Search(db *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return db
	}

	pattern := "%" + strings.ToLower(escapeLike(term)) + "%"
	conds := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, c := range columns {
		conds[i] = fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", c)
		args[i] = pattern
	}
	return db.Where(strings.Join(conds, " OR "), args...)
}

// Bool parses an optional boolean filter. An empty value means "no filter".
func Bool(value string) (*bool, error) {
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
