package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MarkoPoloResearchLab/bankaccount/internal/script"
	"github.com/MarkoPoloResearchLab/bankaccount/pkg/account"
	"go.uber.org/zap"
)

const scenarioScript = `# open, borrow, repay, empty, close
openAccount
deposit 300
requestLoan 5000
payLoan 5000
withdrawMoney 800
withdraw 800
closeAccount
`

func decodeSnapshots(t *testing.T, output string) []account.State {
	t.Helper()
	snapshots := []account.State{}
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		var state account.State
		if err := json.Unmarshal(scanner.Bytes(), &state); err != nil {
			t.Fatalf("decode snapshot %q: %v", scanner.Text(), err)
		}
		snapshots = append(snapshots, state)
	}
	return snapshots
}

func TestRunScriptWritesSnapshotPerAction(t *testing.T) {
	t.Parallel()
	var output bytes.Buffer
	err := runScript(context.Background(), strings.NewReader(scenarioScript), &output, account.DefaultRules(), zap.NewNop())
	if err != nil {
		t.Fatalf("run script: %v", err)
	}
	snapshots := decodeSnapshots(t, output.String())
	if len(snapshots) != 7 {
		t.Fatalf("expected 7 snapshots, got %d", len(snapshots))
	}
	if snapshots[2].Balance != 5800 || snapshots[2].Loan != 5000 {
		t.Fatalf("unexpected loan snapshot: %+v", snapshots[2])
	}
	if snapshots[6] != account.InitialState() {
		t.Fatalf("expected closed account, got %+v", snapshots[6])
	}
}

func TestRunScriptLegacyRules(t *testing.T) {
	t.Parallel()
	var output bytes.Buffer
	source := "openAccount\nrequestLoan 5000\nrequestLoan 100\n"
	if err := runScript(context.Background(), strings.NewReader(source), &output, account.LegacyRules(), nil); err != nil {
		t.Fatalf("run script: %v", err)
	}
	snapshots := decodeSnapshots(t, output.String())
	last := snapshots[len(snapshots)-1]
	if last.Loan != 100 || last.Balance != 5500 {
		t.Fatalf("unexpected legacy snapshot: %+v", last)
	}
}

func TestRunScriptParseError(t *testing.T) {
	t.Parallel()
	var output bytes.Buffer
	err := runScript(context.Background(), strings.NewReader("openAccount\nborrow 5\n"), &output, account.DefaultRules(), zap.NewNop())
	if !errors.Is(err, account.ErrUnknownActionKind) {
		t.Fatalf("expected %v, got %v", account.ErrUnknownActionKind, err)
	}
	var lineError *script.LineError
	if !errors.As(err, &lineError) || lineError.Line != 2 {
		t.Fatalf("expected line 2 error, got %v", err)
	}
	if output.Len() != 0 {
		t.Fatalf("expected no output before a parse error, got %q", output.String())
	}
}

func TestRunCommandReadsFileAndStdin(t *testing.T) {
	scriptPath := filepath.Join(t.TempDir(), "scenario.txt")
	if err := os.WriteFile(scriptPath, []byte(scenarioScript), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}

	var fileOutput bytes.Buffer
	fromFile := newRootCommand()
	fromFile.SetArgs([]string{"run", scriptPath, "--log-level", "error"})
	fromFile.SetOut(&fileOutput)
	if err := fromFile.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var stdinOutput bytes.Buffer
	fromStdin := newRootCommand()
	fromStdin.SetArgs([]string{"run", "-", "--log-level", "error"})
	fromStdin.SetIn(strings.NewReader(scenarioScript))
	fromStdin.SetOut(&stdinOutput)
	if err := fromStdin.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if fileOutput.String() != stdinOutput.String() {
		t.Fatalf("expected identical output, got %q and %q", fileOutput.String(), stdinOutput.String())
	}
	if len(decodeSnapshots(t, fileOutput.String())) != 7 {
		t.Fatalf("unexpected output: %q", fileOutput.String())
	}
}

func TestRunCommandRejectsUnknownRules(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"run", "--rules", "lenient"})
	cmd.SetIn(strings.NewReader("openAccount\n"))
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.Execute(); !errors.Is(err, account.ErrUnknownRules) {
		t.Fatalf("expected %v, got %v", account.ErrUnknownRules, err)
	}
}

func TestServeCommandRejectsUnknownRules(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"serve", "--rules", "lenient"})
	if err := cmd.Execute(); !errors.Is(err, account.ErrUnknownRules) {
		t.Fatalf("expected %v, got %v", account.ErrUnknownRules, err)
	}
}

func TestRunCommandMissingFile(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"run", filepath.Join(t.TempDir(), "missing.txt")})
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.Execute(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected %v, got %v", os.ErrNotExist, err)
	}
}
