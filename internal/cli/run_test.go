package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/plugorder/plugorder/internal/cli"
	"github.com/plugorder/plugorder/internal/settings"
)

// setupSettings writes a settings file pointing the data dir into a
// fresh temp dir and returns its path.
func setupSettings(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, settings.FileName)

	cfg := settings.Default()
	cfg.DataDir = filepath.Join(dir, ".plo")

	if err := settings.Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	return path
}

func runPlo(t *testing.T, cfgPath string, args ...string) (string, string, int) {
	t.Helper()

	var out, errOut bytes.Buffer

	argv := append([]string{"plo", "--settings", cfgPath}, args...)
	code := cli.Run(strings.NewReader(""), &out, &errOut, argv, map[string]string{})

	return out.String(), errOut.String(), code
}

func mustRun(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()

	out, errOut, code := runPlo(t, cfgPath, args...)
	if code != 0 {
		t.Fatalf("plo %v failed (%d): %s", args, code, errOut)
	}

	return out
}

func Test_Set_And_Order_Roundtrip_When_Run_Across_Invocations(t *testing.T) {
	t.Parallel()

	cfg := setupSettings(t)

	out := mustRun(t, cfg, "set", "a.esp", "b.esp", "c.esp", "--active", "a.esp,c.esp")
	if !strings.Contains(out, "3 plugins, 2 active") {
		t.Fatalf("set output = %q", out)
	}

	// A separate invocation reads the state back from the saved history.
	out = mustRun(t, cfg, "order")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("order lines = %d, want 3: %q", len(lines), out)
	}

	if !strings.Contains(lines[0], "* a.esp") || !strings.Contains(lines[1], "  b.esp") {
		t.Fatalf("order output = %q", out)
	}

	out = mustRun(t, cfg, "active")
	if strings.Contains(out, "b.esp") {
		t.Fatalf("active output should omit b.esp: %q", out)
	}
}

func Test_Undo_And_Redo_Restore_Orders_When_Run(t *testing.T) {
	t.Parallel()

	cfg := setupSettings(t)

	mustRun(t, cfg, "set", "a.esp")
	mustRun(t, cfg, "set", "a.esp", "b.esp")

	out := mustRun(t, cfg, "undo")
	if !strings.Contains(out, "undo: 1 plugins") {
		t.Fatalf("undo output = %q", out)
	}

	out = mustRun(t, cfg, "order")
	if strings.Contains(out, "b.esp") {
		t.Fatalf("order after undo should omit b.esp: %q", out)
	}

	out = mustRun(t, cfg, "redo")
	if !strings.Contains(out, "redo: 2 plugins") {
		t.Fatalf("redo output = %q", out)
	}

	out = mustRun(t, cfg, "order")
	if !strings.Contains(out, "b.esp") {
		t.Fatalf("order after redo should include b.esp: %q", out)
	}
}

func Test_Undo_Reports_Noop_When_History_Exhausted(t *testing.T) {
	t.Parallel()

	cfg := setupSettings(t)

	mustRun(t, cfg, "set", "a.esp")
	mustRun(t, cfg, "undo") // back to the initial empty order

	out := mustRun(t, cfg, "undo")
	if !strings.Contains(out, "nothing to undo") {
		t.Fatalf("undo output = %q", out)
	}
}

func Test_Activate_And_Deactivate_Flip_Plugins_When_Run(t *testing.T) {
	t.Parallel()

	cfg := setupSettings(t)

	mustRun(t, cfg, "set", "a.esp", "b.esp", "--active", "a.esp")

	mustRun(t, cfg, "activate", "b.esp")

	out := mustRun(t, cfg, "active")
	if !strings.Contains(out, "b.esp") {
		t.Fatalf("b.esp should be active: %q", out)
	}

	mustRun(t, cfg, "deactivate", "a.esp")

	out = mustRun(t, cfg, "active")
	if strings.Contains(out, "a.esp") {
		t.Fatalf("a.esp should be inactive: %q", out)
	}

	_, errOut, code := runPlo(t, cfg, "deactivate", "a.esp")
	if code == 0 || !strings.Contains(errOut, "not active") {
		t.Fatalf("deactivating an inactive plugin should fail: %q", errOut)
	}
}

func Test_Lock_Toggles_And_Persists_When_Run_With_Yes(t *testing.T) {
	t.Parallel()

	cfg := setupSettings(t)

	out := mustRun(t, cfg, "lock", "--yes")
	if !strings.Contains(out, "lock load order: on") {
		t.Fatalf("lock output = %q", out)
	}

	data, err := os.ReadFile(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(data), `"lock_load_order": true`) {
		t.Fatalf("settings file should persist the lock: %s", data)
	}

	out = mustRun(t, cfg, "lock")
	if !strings.Contains(out, "lock load order: off") {
		t.Fatalf("unlock output = %q", out)
	}
}

func Test_Swap_Renames_Plugin_When_Run(t *testing.T) {
	t.Parallel()

	cfg := setupSettings(t)

	mustRun(t, cfg, "set", "old.esp", "b.esp", "--active", "old.esp")
	mustRun(t, cfg, "swap", "old.esp", "new.esp")

	out := mustRun(t, cfg, "order")
	if strings.Contains(out, "old.esp") || !strings.Contains(out, "* new.esp") {
		t.Fatalf("order after swap = %q", out)
	}
}

func Test_Status_Summarizes_State_When_Run(t *testing.T) {
	t.Parallel()

	cfg := setupSettings(t)

	mustRun(t, cfg, "set", "a.esp", "b.esp", "--active", "a.esp")

	out := mustRun(t, cfg, "status")

	for _, want := range []string{"plugins:  2", "active:   1", "lock:     off"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q: %q", want, out)
		}
	}
}

func Test_Run_Fails_When_Command_Unknown(t *testing.T) {
	t.Parallel()

	cfg := setupSettings(t)

	_, errOut, code := runPlo(t, cfg, "frobnicate")
	if code == 0 || !strings.Contains(errOut, "unknown command") {
		t.Fatalf("code = %d, stderr = %q", code, errOut)
	}
}

func Test_Run_Prints_Usage_When_No_Command(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer

	code := cli.Run(strings.NewReader(""), &out, &errOut, []string{"plo"}, map[string]string{})
	if code == 0 {
		t.Fatal("missing command should fail")
	}

	if !strings.Contains(out.String(), "Usage: plo") {
		t.Fatalf("usage not printed: %q", out.String())
	}
}
