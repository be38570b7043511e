// Package testing is imported for its side effect by the main package tests:
// it puts the binaries in test mode so main returns before dialing Postgres or Redis.
package testing

import (
	"os"

	"github.com/money-manager/money-manager/internal/app"
)

func init() {
	setDefault(app.TestModeEnv, "1")
	setDefault("JWT_SECRET", "test-secret")
}

func setDefault(key, value string) {
	if _, ok := os.LookupEnv(key); !ok {
		_ = os.Setenv(key, value)
	}
}
