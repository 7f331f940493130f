package repository

import (
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/ports"
)

// psql builds statements with PostgreSQL placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// translateError maps PostgreSQL constraint failures onto domain errors so
// callers never see driver-level error codes.
func translateError(err error, relation string) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code.Name() {
	case "unique_violation":
		return &entities.ConstraintError{
			Relation: relation,
			Field:    constraintField(pqErr),
			Reason:   "already exists",
		}
	case "foreign_key_violation":
		return &entities.ConstraintError{
			Relation: relation,
			Field:    constraintField(pqErr),
			Reason:   "protected reference has dependents",
		}
	}

	return err
}

func constraintField(err *pq.Error) string {
	if err.Column != "" {
		return err.Column
	}
	if err.Constraint != "" {
		return err.Constraint
	}
	return "unknown"
}

// idRangeConds turns comparison predicates into WHERE conditions.
func idRangeConds(col string, r ports.IDRange) []sq.Sqlizer {
	var conds []sq.Sqlizer
	if r.GT != nil {
		conds = append(conds, sq.Gt{col: *r.GT})
	}
	if r.GTE != nil {
		conds = append(conds, sq.GtOrEq{col: *r.GTE})
	}
	if r.LT != nil {
		conds = append(conds, sq.Lt{col: *r.LT})
	}
	if r.LTE != nil {
		conds = append(conds, sq.LtOrEq{col: *r.LTE})
	}
	return conds
}

// likePattern wraps a user-supplied term for substring matching, escaping
// LIKE metacharacters so the term matches literally.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

// textMatchConds turns exact/contains/icontains predicates into WHERE conditions.
func textMatchConds(col string, m ports.TextMatch) []sq.Sqlizer {
	var conds []sq.Sqlizer
	if m.Exact != nil {
		conds = append(conds, sq.Eq{col: *m.Exact})
	}
	if m.Contains != nil {
		conds = append(conds, sq.Like{col: likePattern(*m.Contains)})
	}
	if m.IContains != nil {
		conds = append(conds, sq.ILike{col: likePattern(*m.IContains)})
	}
	return conds
}

// orderClause validates the requested ordering key against the column
// whitelist and returns the ORDER BY expression. A leading '-' requests
// descending order; unknown keys fall back to the default.
func orderClause(ordering string, allowed map[string]string, def string) string {
	direction := "ASC"
	key := ordering

	if strings.HasPrefix(key, "-") {
		direction = "DESC"
		key = key[1:]
	}

	col, ok := allowed[key]
	if !ok {
		return def + " ASC"
	}

	return fmt.Sprintf("%s %s", col, direction)
}

// applyPaging adds LIMIT/OFFSET to a select.
func applyPaging(b sq.SelectBuilder, limit, offset int) sq.SelectBuilder {
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	return b
}
