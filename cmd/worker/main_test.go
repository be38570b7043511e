package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/money-manager/money-manager/internal/app"
	_ "github.com/money-manager/money-manager/testing"
)

func TestMainSkipsInTestMode(t *testing.T) {
	app.RefreshTestMode()
	assert.True(t, app.InTestMode())
	assert.NotPanics(t, main)
}
