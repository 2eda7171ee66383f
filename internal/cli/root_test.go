package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ledger/internal/core"
)

func setEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATA_BACKEND", "csv")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("AMQP_URL", "")
	t.Setenv("LEDGER_CONFIG", "")
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAddSummaryList(t *testing.T) {
	setEnv(t)
	file := filepath.Join(t.TempDir(), "ledger.csv")

	steps := [][]string{
		{"add", "--file", file, "--type", "income", "--amount", "1000", "--category", "salary", "--date", "2024-01-01"},
		{"add", "--file", file, "--type", "expense", "--amount", "200", "--category", "food", "--date", "2024-01-02"},
		{"add", "--file", file, "--type", "expense", "--amount", "50", "--category", "food", "--description", "lunch", "--date", "2024-01-03"},
	}
	for _, args := range steps {
		if _, _, err := execute(t, "", args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	out, _, err := execute(t, "", "summary", "--file", file)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	for _, want := range []string{"Total Income: $1000.00", "Total Expenses: $250.00", "Balance: $750.00", "Food"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}

	out, _, err = execute(t, "", "list", "--file", file)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := strings.Count(out, "2024-01-0"); got != 3 {
		t.Errorf("expected 3 rows, got %d\n%s", got, out)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "type,amount,category,description,date\n") {
		t.Errorf("unexpected file header: %q", data)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	setEnv(t)
	file := filepath.Join(t.TempDir(), "ledger.csv")

	_, _, err := execute(t, "", "add", "--file", file, "--type", "loan", "--amount", "5")
	if !errors.Is(err, core.ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Errorf("rejected add must not write the ledger")
	}
}

func TestLoadErrorFails(t *testing.T) {
	setEnv(t)
	file := filepath.Join(t.TempDir(), "ledger.csv")
	content := "type,amount,category,description,date\nexpense,abc,food,,2024-01-01\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := execute(t, "", "summary", "--file", file)
	var rowErr *core.RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected *core.RowError, got %v", err)
	}
	if rowErr.Line != 2 {
		t.Errorf("line = %d, want 2", rowErr.Line)
	}
}

func TestInteractiveRun(t *testing.T) {
	setEnv(t)
	file := filepath.Join(t.TempDir(), "ledger.csv")

	input := "1\nexpense\n12.5\nfood\npizza\n2024-02-01\n3\n"
	out, _, err := execute(t, input, "--file", file)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "You logged 1 transactions.") {
		t.Errorf("unexpected output\n%s", out)
	}

	out, _, err = execute(t, "", "run", "--file", file)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Loaded 1 transactions from file.") {
		t.Errorf("expected reload message\n%s", out)
	}
}

func TestConfigFileOverlay(t *testing.T) {
	setEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "from-yaml.csv")
	cfgPath := filepath.Join(dir, "ledger.yaml")
	if err := os.WriteFile(cfgPath, []byte("ledger_file: "+file+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := execute(t, "", "add", "--config", cfgPath, "--type", "income", "--amount", "1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("ledger should be written to the YAML path: %v", err)
	}
}

func TestDebugLogging(t *testing.T) {
	setEnv(t)
	file := filepath.Join(t.TempDir(), "ledger.csv")

	_, errOut, err := execute(t, "", "summary", "--debug", "--file", file)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	for _, want := range []string{"operation=summary", "component=storage", "component=backend"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("log output missing %q\n%s", want, errOut)
		}
	}
	for _, line := range strings.Split(strings.TrimSpace(errOut), "\n") {
		if n := strings.Count(line, "component="); n != 1 {
			t.Errorf("expected one component per line, got %d: %s", n, line)
		}
	}

	_, errOut, err = execute(t, "", "list", "--debug", "--file", file)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(errOut, "operation=list") {
		t.Errorf("log output missing operation=list\n%s", errOut)
	}
}
