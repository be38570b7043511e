package app

import (
	"os"
	"strconv"
	"sync"
)

// TestModeEnv names the variable that keeps the binaries from opening
// connections when main runs under go test.
const TestModeEnv = "MONEYMANAGER_TEST_MODE"

var testMode struct {
	sync.Mutex
	loaded bool
	on     bool
}

// InTestMode reports whether TestModeEnv is set to a true value.
func InTestMode() bool {
	testMode.Lock()
	defer testMode.Unlock()
	if !testMode.loaded {
		testMode.on = parseTestMode(os.Getenv(TestModeEnv))
		testMode.loaded = true
	}
	return testMode.on
}

// RefreshTestMode forgets the cached value so the next InTestMode rereads it.
func RefreshTestMode() {
	testMode.Lock()
	testMode.loaded = false
	testMode.Unlock()
}

func parseTestMode(v string) bool {
	on, err := strconv.ParseBool(v)
	return err == nil && on
}
