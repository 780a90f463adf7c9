package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/shuttle/internal/config"
	"github.com/evanschultz/shuttle/internal/domain"
	"github.com/evanschultz/shuttle/internal/seed"
	"github.com/evanschultz/shuttle/internal/tui"
	"github.com/spf13/cobra"
)

// TestMain pins deterministic env defaults and plain cobra execution for CLI tests.
func TestMain(m *testing.M) {
	_ = os.Setenv("SHUTTLE_DEV_MODE", "false")
	executeCommand = func(ctx context.Context, cmd *cobra.Command) error {
		return cmd.ExecuteContext(ctx)
	}
	os.Exit(m.Run())
}

// fakeProgram records the model it was started with.
type fakeProgram struct {
	model  tea.Model
	runErr error
}

func (f fakeProgram) Run() (tea.Model, error) {
	return f.model, f.runErr
}

// stubProgram swaps programFactory and returns a pointer to the captured model.
func stubProgram(t *testing.T, runErr error) *tea.Model {
	t.Helper()
	orig := programFactory
	t.Cleanup(func() { programFactory = orig })
	var captured tea.Model
	programFactory = func(m tea.Model) program {
		captured = m
		return fakeProgram{model: m, runErr: runErr}
	}
	return &captured
}

// isolateUserDirs points config and data lookups at temp dirs.
func isolateUserDirs(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("HOME", root)
	t.Setenv("SHUTTLE_CONFIG", "")
	t.Setenv("SHUTTLE_SEED", "")
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestRunVersion(t *testing.T) {
	var out strings.Builder
	if err := run(context.Background(), []string{"--version"}, &out, io.Discard); err != nil {
		t.Fatalf("run(version) error = %v", err)
	}
	if !strings.Contains(out.String(), version) {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestRunStartsProgramWithDefaultSeed(t *testing.T) {
	isolateUserDirs(t)
	captured := stubProgram(t, nil)

	if err := run(context.Background(), nil, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, ok := (*captured).(tui.Model); !ok {
		t.Fatalf("expected tui.Model, got %T", *captured)
	}
}

func TestRunMoveObserverLogsToDevFile(t *testing.T) {
	isolateUserDirs(t)
	workspace := t.TempDir()
	t.Chdir(workspace)

	orig := programFactory
	t.Cleanup(func() { programFactory = orig })
	programFactory = func(m tea.Model) program {
		updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
		updated, _ = updated.Update(tea.KeyPressMsg{Code: 'm', Text: "m"})
		return fakeProgram{model: updated}
	}

	if err := run(context.Background(), []string{"--dev"}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	matches, err := filepath.Glob(filepath.Join(workspace, ".shuttle", "log", "*.log"))
	if err != nil || len(matches) == 0 {
		t.Fatalf("expected dev log file, got %v (%v)", matches, err)
	}
	content, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(content), "record moved") || !strings.Contains(string(content), "id=p1") {
		t.Fatalf("expected move entry in log file, got %q", content)
	}
}

func TestRunPropagatesProgramError(t *testing.T) {
	isolateUserDirs(t)
	stubProgram(t, errors.New("boom"))

	err := run(context.Background(), nil, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "run tui program") {
		t.Fatalf("expected wrapped program error, got %v", err)
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	isolateUserDirs(t)
	if err := run(context.Background(), []string{"frobnicate"}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected unknown command error")
	}
}

func TestRunRejectsInvalidFlag(t *testing.T) {
	if err := run(context.Background(), []string{"--bogus"}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected flag parse error")
	}
}

func TestRunPathsCommand(t *testing.T) {
	root := isolateUserDirs(t)
	var out strings.Builder
	if err := run(context.Background(), []string{"--app", "shuttlex", "--dev", "paths"}, &out, io.Discard); err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	output := out.String()
	for _, want := range []string{
		"app: shuttlex",
		"dev_mode: true",
		"seed: " + filepath.Join(root, "data", "shuttlex-dev", "seed.yaml"),
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in paths output, got %q", want, output)
		}
	}
}

func TestRunSeedCommandPrintsBuiltInSeed(t *testing.T) {
	isolateUserDirs(t)
	var out bytes.Buffer
	if err := run(context.Background(), []string{"seed"}, &out, io.Discard); err != nil {
		t.Fatalf("run(seed) error = %v", err)
	}
	records, err := seed.Decode(&out, nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(records) != 3 || records[0].ID != "p1" {
		t.Fatalf("unexpected seed output %+v", records)
	}
}

func TestRunSeedFlagAssignsMissingIDs(t *testing.T) {
	isolateUserDirs(t)
	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	writeFile(t, seedPath, "projects:\n  - title: Water plants\n    list: finished\n")

	var out bytes.Buffer
	if err := run(context.Background(), []string{"--seed", seedPath, "seed"}, &out, io.Discard); err != nil {
		t.Fatalf("run(seed) error = %v", err)
	}
	records, err := seed.Decode(&out, nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(records) != 1 || records[0].ID == "" || records[0].List != domain.ListFinished {
		t.Fatalf("unexpected records %+v", records)
	}
}

func TestRunSeedFromConfigAndEnv(t *testing.T) {
	isolateUserDirs(t)
	tmp := t.TempDir()
	seedPath := filepath.Join(tmp, "from-config.yaml")
	writeFile(t, seedPath, "projects:\n  - {id: c1, title: Configured, list: active}\n")
	cfgPath := filepath.Join(tmp, "config.toml")
	writeFile(t, cfgPath, "[seed]\npath = \""+filepath.ToSlash(seedPath)+"\"\n")
	t.Setenv("SHUTTLE_CONFIG", cfgPath)

	var out bytes.Buffer
	if err := run(context.Background(), []string{"seed"}, &out, io.Discard); err != nil {
		t.Fatalf("run(seed) error = %v", err)
	}
	if !strings.Contains(out.String(), "Configured") {
		t.Fatalf("expected configured seed, got %q", out.String())
	}
}

func TestRunMissingExplicitSeedFails(t *testing.T) {
	isolateUserDirs(t)
	stubProgram(t, nil)
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	err := run(context.Background(), []string{"--seed", missing}, io.Discard, io.Discard)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestRunInvalidSeedFails(t *testing.T) {
	isolateUserDirs(t)
	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	writeFile(t, seedPath, "projects:\n  - {id: a, title: A, list: archived}\n")
	err := run(context.Background(), []string{"--seed", seedPath, "seed"}, io.Discard, io.Discard)
	if !errors.Is(err, domain.ErrInvalidListName) {
		t.Fatalf("expected invalid list error, got %v", err)
	}
}

func TestRunConfigCommand(t *testing.T) {
	isolateUserDirs(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, cfgPath, "[board]\ntitle = \"Weekend\"\n")

	var out strings.Builder
	if err := run(context.Background(), []string{"--config", cfgPath, "config"}, &out, io.Discard); err != nil {
		t.Fatalf("run(config) error = %v", err)
	}
	if !strings.Contains(out.String(), "Weekend") || !strings.Contains(out.String(), "offset_x = 2") {
		t.Fatalf("unexpected config output %q", out.String())
	}
}

func TestRunRejectsInvalidLoggingLevelFromConfig(t *testing.T) {
	isolateUserDirs(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, cfgPath, "[logging]\nlevel = \"verbose\"\n")

	err := run(context.Background(), []string{"--config", cfgPath, "seed"}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "invalid logging.level") {
		t.Fatalf("expected logging level validation error, got %v", err)
	}
}

func TestRunTUIModeWritesRuntimeLogsToFileOnly(t *testing.T) {
	isolateUserDirs(t)
	stubProgram(t, nil)
	workspace := t.TempDir()
	t.Chdir(workspace)

	var stderr bytes.Buffer
	if err := run(context.Background(), []string{"--dev"}, io.Discard, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := strings.TrimSpace(stderr.String()); got != "" {
		t.Fatalf("expected no stderr output in TUI mode, got %q", got)
	}

	logDir := filepath.Join(workspace, ".shuttle", "log")
	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	var logPath string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".log") {
			logPath = filepath.Join(logDir, entry.Name())
			break
		}
	}
	if logPath == "" {
		t.Fatalf("expected a .log file in %s", logDir)
	}
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, want := range []string{"startup configuration resolved", "dev file logging enabled", "starting tui program loop"} {
		if !strings.Contains(string(content), want) {
			t.Fatalf("expected %q in log file, got %q", want, content)
		}
	}
}

func TestRunSubcommandKeepsConsoleLogs(t *testing.T) {
	isolateUserDirs(t)
	var stderr bytes.Buffer
	if err := run(context.Background(), []string{"seed"}, io.Discard, &stderr); err != nil {
		t.Fatalf("run(seed) error = %v", err)
	}
	if !strings.Contains(stderr.String(), "startup configuration resolved") {
		t.Fatalf("expected console startup log outside TUI mode, got %q", stderr.String())
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Setenv("SHUTTLE_BOOL_TEST", "true")
	if v, ok := parseBoolEnv("SHUTTLE_BOOL_TEST"); !ok || !v {
		t.Fatalf("expected true/true, got %t/%t", v, ok)
	}
	t.Setenv("SHUTTLE_BOOL_TEST", "maybe")
	if _, ok := parseBoolEnv("SHUTTLE_BOOL_TEST"); ok {
		t.Fatal("expected invalid value to be ignored")
	}
	t.Setenv("SHUTTLE_BOOL_TEST", "")
	if _, ok := parseBoolEnv("SHUTTLE_BOOL_TEST"); ok {
		t.Fatal("expected unset value to be ignored")
	}
}

func TestWorkspaceRootFromUsesNearestMarker(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/test\n")
	nested := filepath.Join(root, "cmd", "shuttle")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if got := workspaceRootFrom(nested); filepath.Clean(got) != filepath.Clean(root) {
		t.Fatalf("expected workspace root %q, got %q", root, got)
	}
}

func TestDevLogFilePathNaming(t *testing.T) {
	dir := t.TempDir()
	got, err := devLogFilePath(dir, "my app/dev", time.Date(2026, 2, 22, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("devLogFilePath() error = %v", err)
	}
	if want := filepath.Join(dir, "my-app-dev-20260222.log"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if stem := sanitizeLogFileStem("  / "); stem != "shuttle" {
		t.Fatalf("expected fallback stem, got %q", stem)
	}
}

func TestRuntimeLoggerCanMuteConsoleSink(t *testing.T) {
	var console bytes.Buffer
	cfg := config.Default("").Logging

	logger, err := newRuntimeLogger(&console, "shuttle", false, cfg, func() time.Time {
		return time.Date(2026, 2, 23, 12, 0, 0, 0, time.UTC)
	})
	if err != nil {
		t.Fatalf("newRuntimeLogger() error = %v", err)
	}
	logger.Info("before")
	logger.SetConsoleEnabled(false)
	logger.Info("during")
	logger.SetConsoleEnabled(true)
	logger.Info("after")

	out := console.String()
	if !strings.Contains(out, "before") || strings.Contains(out, "during") || !strings.Contains(out, "after") {
		t.Fatalf("unexpected console output %q", out)
	}
	if logger.DevLogPath() != "" {
		t.Fatal("expected no dev log outside dev mode")
	}
}
