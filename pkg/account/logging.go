package account

import "context"

// SessionOption configures a Session instance.
type SessionOption func(*Session)

// OperationLogger records every action dispatched through a Session.
// It runs while the session is locked and must not dispatch on the same session.
type OperationLogger interface {
	LogOperation(ctx context.Context, entry OperationLog)
}

// OperationLog describes one dispatched action and the snapshots around it.
type OperationLog struct {
	SessionID string
	Action    Action
	Before    State
	After     State
	Status    string
}

// Applied reports whether the action changed the state.
func (entry OperationLog) Applied() bool {
	return entry.Status == operationStatusApplied
}

// WithOperationLogger wires a logger that receives callbacks for every dispatch.
func WithOperationLogger(logger OperationLogger) SessionOption {
	return func(session *Session) {
		session.logger = logger
	}
}

// WithRules selects the rule set used by Dispatch.
func WithRules(rules Rules) SessionOption {
	return func(session *Session) {
		session.rules = rules
	}
}

// WithInitialState starts the session from a state other than InitialState.
func WithInitialState(state State) SessionOption {
	return func(session *Session) {
		session.state = state
	}
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(sessionID string) SessionOption {
	return func(session *Session) {
		session.id = sessionID
	}
}
