//go:build tools
// +build tools

// Package tools pins mockgen, run through the //go:generate headers of
// contract/contract.go and repositories/{chat,user}.go to refresh mocks/.
package tp1adc

import (
	_ "go.uber.org/mock/mockgen"
)
