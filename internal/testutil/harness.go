package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/caproute/internal/app"
	"github.com/vk/caproute/internal/catalog"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an app test run.
type HarnessResult struct {
	LogOutput string
	Output    string
	Err       error
	App       *app.App
}

// RunAppTest writes files (relative path -> content) into a temporary
// manifest directory, builds an App from them with the given modules and
// runs it. cfg may be nil; ManifestPaths is always overridden.
func RunAppTest(t *testing.T, files map[string]string, cfg *app.Config, modules ...catalog.Module) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	appConfig := app.Config{LogLevel: "debug", LogFormat: "text", Checks: true, Output: "text"}
	if cfg != nil {
		appConfig = *cfg
		if appConfig.LogLevel == "" {
			appConfig.LogLevel = "debug"
		}
		if appConfig.LogFormat == "" {
			appConfig.LogFormat = "text"
		}
	}
	appConfig.ManifestPaths = []string{tmpDir}

	logBuffer := &SafeBuffer{}
	out := &bytes.Buffer{}
	ctx := context.Background()

	var testApp *app.App
	var runErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				if os.Getenv("CAPROUTE_TEST_LOGS") == "true" {
					t.Logf("--- HARNESS RECOVERED PANIC ---\n%q", fmt.Sprintf("%v", r))
				}
				runErr = fmt.Errorf("application startup panicked | %v", r)
			}
		}()
		testApp, runErr = app.NewApp(ctx, logBuffer, &appConfig, modules...)
		if runErr == nil {
			runErr = testApp.Run(ctx, out)
		}
	}()

	if os.Getenv("CAPROUTE_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Output:    out.String(),
		Err:       runErr,
		App:       testApp,
	}
}
