package repository

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDatabaseUnavailable is returned when a repository is asked to run a
// query before the database connection is established. Callers degrade or
// surface it instead of dereferencing a nil handle.
var ErrDatabaseUnavailable = errors.New("database connection is not established")

// buildUpdateSet renders "col = $n" fragments for a dynamic UPDATE, in
// deterministic column order, starting at placeholder index start.
func buildUpdateSet(fields map[string]string, start int) (string, []any) {
	columns := make([]string, 0, len(fields))
	for column := range fields {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	fragments := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for i, column := range columns {
		fragments = append(fragments, fmt.Sprintf("%s = $%d", column, start+i))
		args = append(args, fields[column])
	}
	return strings.Join(fragments, ", "), args
}
