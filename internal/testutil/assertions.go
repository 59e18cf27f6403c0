package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertLogged checks that the harness log output contains every fragment.
func AssertLogged(t *testing.T, result *HarnessResult, fragments ...string) {
	t.Helper()
	for _, f := range fragments {
		require.True(t, strings.Contains(result.LogOutput, f),
			"Expected log output to contain %q.\nFull log output:\n%s", f, result.LogOutput)
	}
}

// RecoverPanic runs fn and returns the value it panicked with, or nil.
func RecoverPanic(fn func()) (recovered any) {
	defer func() { recovered = recover() }()
	fn()
	return nil
}
