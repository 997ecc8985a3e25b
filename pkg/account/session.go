package account

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	errorOperationSession = "session"
	errorSubjectRules     = "rules"
	errorSubjectID        = "id"
	errorCodeInvalid      = "invalid"
)

// Session owns the current account state and serializes dispatch against it.
type Session struct {
	mutex  sync.Mutex
	id     string
	rules  Rules
	state  State
	logger OperationLogger
}

// NewSession wires a Session starting from InitialState with DefaultRules.
func NewSession(options ...SessionOption) (*Session, error) {
	session := &Session{
		id:    uuid.NewString(),
		rules: DefaultRules(),
		state: InitialState(),
	}
	for _, option := range options {
		if option != nil {
			option(session)
		}
	}
	if err := session.rules.Validate(); err != nil {
		return nil, WrapError(errorOperationSession, errorSubjectRules, errorCodeInvalid, fmt.Errorf("%w: %w", ErrInvalidSessionConfig, err))
	}
	if strings.TrimSpace(session.id) == "" {
		return nil, WrapError(errorOperationSession, errorSubjectID, errorCodeInvalid, ErrInvalidSessionConfig)
	}
	return session, nil
}

// ID returns the session identifier.
func (session *Session) ID() string {
	return session.id
}

// Rules returns the rule set applied by Dispatch.
func (session *Session) Rules() Rules {
	return session.rules
}

// State returns the current snapshot.
func (session *Session) State() State {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	return session.state
}

// Dispatch applies action to the current state and returns the new snapshot.
// Guarded actions are not errors; only a done context is.
func (session *Session) Dispatch(ctx context.Context, action Action) (State, error) {
	entry, err := session.Apply(ctx, action)
	if err != nil {
		return session.State(), err
	}
	return entry.After, nil
}

// Apply is Dispatch returning both snapshots and whether the action changed the state.
// The logger is called before the next dispatch starts, so log order matches state order.
func (session *Session) Apply(ctx context.Context, action Action) (OperationLog, error) {
	if err := ctx.Err(); err != nil {
		return OperationLog{}, err
	}
	session.mutex.Lock()
	defer session.mutex.Unlock()

	before := session.state
	after := session.rules.Transition(before, action)
	session.state = after

	entry := OperationLog{
		SessionID: session.id,
		Action:    action,
		Before:    before,
		After:     after,
		Status:    operationStatusIgnored,
	}
	if before != after {
		entry.Status = operationStatusApplied
	}
	session.logOperation(ctx, entry)
	return entry, nil
}

// DispatchAll dispatches actions in order and returns the final snapshot.
func (session *Session) DispatchAll(ctx context.Context, actions ...Action) (State, error) {
	state := session.State()
	for _, action := range actions {
		next, err := session.Dispatch(ctx, action)
		if err != nil {
			return state, err
		}
		state = next
	}
	return state, nil
}

func (session *Session) logOperation(ctx context.Context, entry OperationLog) {
	if session.logger == nil {
		return
	}
	session.logger.LogOperation(ctx, entry)
}
