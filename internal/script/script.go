// Package script reads account actions from line-oriented scripts.
//
// Each non-blank line holds one action, either as `kind [amount]` or as the
// JSON action shape `{"kind": "...", "amount": N}`. Lines starting with `#`
// are comments.
package script

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MarkoPoloResearchLab/bankaccount/pkg/account"
)

const (
	commentPrefix = "#"
	jsonPrefix    = "{"

	errorOperationScript = "script"
	errorSubjectLine     = "line"
	errorSubjectReader   = "reader"
	errorCodeMalformed   = "malformed"
	errorCodeAction      = "action"
	errorCodeRead        = "read"
)

// ErrMalformedLine reports a line that is neither `kind [amount]` nor JSON.
var ErrMalformedLine = errors.New("malformed script line")

// LineError attaches a 1-based line number to a parse failure.
type LineError struct {
	Line int
	Err  error
}

// Error prefixes the cause with its line number.
func (lineError *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", lineError.Line, lineError.Err)
}

// Unwrap returns the parse failure for errors.Is and errors.As.
func (lineError *LineError) Unwrap() error {
	return lineError.Err
}

// Parse reads every action in reader.
func Parse(reader io.Reader) ([]account.Action, error) {
	actions := []account.Action{}
	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		action, err := ParseLine(line)
		if err != nil {
			return nil, &LineError{Line: lineNumber, Err: err}
		}
		actions = append(actions, action)
	}
	if err := scanner.Err(); err != nil {
		return nil, account.WrapError(errorOperationScript, errorSubjectReader, errorCodeRead, err)
	}
	return actions, nil
}

// ParseLine parses a single non-comment line.
func ParseLine(line string) (account.Action, error) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, jsonPrefix) {
		var action account.Action
		if err := json.Unmarshal([]byte(trimmed), &action); err != nil {
			if errors.Is(err, account.ErrUnknownActionKind) || errors.Is(err, account.ErrInvalidAmount) {
				return account.Action{}, account.WrapError(errorOperationScript, errorSubjectLine, errorCodeAction, err)
			}
			return account.Action{}, account.WrapError(errorOperationScript, errorSubjectLine, errorCodeMalformed, fmt.Errorf("%w: %v", ErrMalformedLine, err))
		}
		return action, nil
	}

	fields := strings.Fields(trimmed)
	if len(fields) == 0 || len(fields) > 2 {
		return account.Action{}, account.WrapError(errorOperationScript, errorSubjectLine, errorCodeMalformed, fmt.Errorf("%w: expected kind and optional amount", ErrMalformedLine))
	}
	var (
		action account.Action
		err    error
	)
	if len(fields) == 1 {
		action, err = account.NewDefaultAction(fields[0])
	} else {
		amount, parseErr := strconv.ParseInt(fields[1], 10, 64)
		if parseErr != nil {
			return account.Action{}, account.WrapError(errorOperationScript, errorSubjectLine, errorCodeMalformed, fmt.Errorf("%w: amount %q", ErrMalformedLine, fields[1]))
		}
		action, err = account.NewAction(fields[0], amount)
	}
	if err != nil {
		return account.Action{}, account.WrapError(errorOperationScript, errorSubjectLine, errorCodeAction, err)
	}
	return action, nil
}
