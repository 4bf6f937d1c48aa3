package sqlite

import (
	"database/sql/driver"
	"strings"

	moderncsqlite "modernc.org/sqlite"
)

// casefoldFunc names the scalar function that lowercases text with Go's
// Unicode tables. SQLite's built-in LOWER only folds ASCII.
const casefoldFunc = "casefold"

func init() {
	if err := moderncsqlite.RegisterDeterministicScalarFunction(casefoldFunc, 1, casefold); err != nil {
		panic(err)
	}
}

func casefold(_ *moderncsqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
