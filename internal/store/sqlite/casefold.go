package sqlite

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	"modernc.org/sqlite"

	"github.com/recipemanager/recipe-server/internal/normalize"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// registerFunctions installs the custom SQL functions used by the queries.
// Registration is process-wide and must happen before connections open.
func registerFunctions() error {
	registerOnce.Do(func() {
		registerErr = sqlite.RegisterDeterministicScalarFunction("casefold", 1, casefoldSQL)
	})
	return registerErr
}

// casefoldSQL implements casefold(text) with full Unicode case folding,
// which SQLite's built-in lower() and LIKE only do for ASCII.
func casefoldSQL(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return normalize.Fold(v), nil
	case []byte:
		return normalize.Fold(string(v)), nil
	default:
		return normalize.Fold(fmt.Sprint(v)), nil
	}
}

// likeEscaper escapes LIKE wildcards so the query matches them literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching any value that contains
// the folded query as a substring.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(normalize.Fold(query)) + "%"
}
