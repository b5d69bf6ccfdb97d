package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"inventory-service/internal/core/domain"
)

// orderClause turns an ordering parameter ("name", "-cost", "sku,-name")
// into an ORDER BY list using the allowed field to column mapping.
// tiebreak is appended so paging is stable.
func orderClause(ordering string, allowed map[string]string, fallback, tiebreak string) (string, error) {
	ordering = strings.TrimSpace(ordering)
	if ordering == "" {
		return fallback + ", " + tiebreak, nil
	}

	var parts []string
	for _, field := range strings.Split(ordering, ",") {
		field = strings.TrimSpace(field)
		dir := "ASC"
		if strings.HasPrefix(field, "-") {
			dir = "DESC"
			field = field[1:]
		}
		column, ok := allowed[field]
		if !ok {
			return "", fmt.Errorf("%w: %q", domain.ErrInvalidOrdering, field)
		}
		parts = append(parts, column+" "+dir)
	}
	parts = append(parts, tiebreak)
	return strings.Join(parts, ", "), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE operand matching term anywhere, with
// LIKE wildcards in term taken literally.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == "23505"
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == "23503"
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
