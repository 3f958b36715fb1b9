package stringutils

import "fmt"

// INClause builds the positional placeholders and the matching args slice
// for a SQL "IN (...)" expression over the given values.
func INClause[T any](list []T) (placeholders []string, args []any) {
	placeholders = make([]string, len(list))
	args = make([]any, len(list))
	for i, v := range list {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = v
	}

	return placeholders, args
}
