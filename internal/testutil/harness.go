package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/spacenavgo/internal/app"
	"github.com/specialistvlad/spacenavgo/internal/hcl"
	"github.com/specialistvlad/spacenavgo/internal/registry"
	"github.com/stretchr/testify/require"
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

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// WriteFiles writes files (relative name -> content) into a fresh temporary
// directory and returns its path.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// RunApp builds an App from cfg with the given plugins and runs it once.
// Relative scene and script paths in cfg are resolved against dir. Startup
// panics are recovered and reported in Err, the way the CLI reports them.
func RunApp(ctx context.Context, t *testing.T, dir string, cfg app.Config, plugins ...registry.Plugin) *HarnessResult {
	t.Helper()

	if cfg.ScenePath != "" && !filepath.IsAbs(cfg.ScenePath) {
		cfg.ScenePath = filepath.Join(dir, cfg.ScenePath)
	}
	if cfg.ScriptPath != "" && !filepath.IsAbs(cfg.ScriptPath) {
		cfg.ScriptPath = filepath.Join(dir, cfg.ScriptPath)
	}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"

	out := &SafeBuffer{}
	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(ctx, out, logBuffer, &cfg, hcl.NewLoader(hcl.WithEnviron(nil)), plugins...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			Output:    out.String(),
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	runErr := testApp.Run(ctx)

	if os.Getenv("SPACENAVGO_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
	}
}
