package postgres

import (
	"fmt"
	"strings"
)

// buildListQuery appends filters, ordering and an optional limit to baseQuery.
func buildListQuery(baseQuery string, conditions []string, args *[]any, orderBy string, limit int) string {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(baseQuery)

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY ")
	queryBuilder.WriteString(orderBy)

	if limit > 0 {
		*args = append(*args, limit)
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", len(*args)))
	}

	return queryBuilder.String()
}

// setClause collects "column = $n" pairs for a partial UPDATE.
type setClause struct {
	sets []string
	args []any
}

func (c *setClause) add(column string, value any) {
	c.args = append(c.args, value)
	c.sets = append(c.sets, fmt.Sprintf("%s = $%d", column, len(c.args)))
}

// build renders "UPDATE table SET ..., updated_at = NOW() WHERE id = $n RETURNING returning".
func (c *setClause) build(table, id, returning string) (string, []any) {
	sets := append(append([]string{}, c.sets...), "updated_at = NOW()")
	args := append(append([]any{}, c.args...), id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(sets, ", "), len(args), returning)
	return query, args
}
