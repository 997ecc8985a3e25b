package account

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Amount is an integer money amount. Balances may be negative.
type Amount int64

// Int64 returns the raw integer value.
func (amount Amount) Int64() int64 {
	return int64(amount)
}

// NewAmount validates a payload amount: not negative and at most MaxAmount.
func NewAmount(raw int64) (Amount, error) {
	if raw < 0 {
		return 0, fmt.Errorf("%w: must not be negative", ErrInvalidAmount)
	}
	if raw > int64(MaxAmount) {
		return 0, fmt.Errorf("%w: must not exceed %d", ErrInvalidAmount, MaxAmount)
	}
	return Amount(raw), nil
}

// ActionKind names a state transition.
type ActionKind string

const (
	ActionOpenAccount     ActionKind = "openAccount"
	ActionStageDeposit    ActionKind = "stageDeposit"
	ActionStageWithdrawal ActionKind = "stageWithdrawal"
	ActionDeposit         ActionKind = "deposit"
	ActionWithdraw        ActionKind = "withdraw"
	ActionRequestLoan     ActionKind = "requestLoan"
	ActionPayLoan         ActionKind = "payLoan"
	ActionCloseAccount    ActionKind = "closeAccount"
)

// Older names for the staging actions, still accepted on input.
const (
	legacyStageDepositName    = "depositMoney"
	legacyStageWithdrawalName = "withdrawMoney"
)

var knownActionKinds = map[ActionKind]struct{}{
	ActionOpenAccount:     {},
	ActionStageDeposit:    {},
	ActionStageWithdrawal: {},
	ActionDeposit:         {},
	ActionWithdraw:        {},
	ActionRequestLoan:     {},
	ActionPayLoan:         {},
	ActionCloseAccount:    {},
}

// ParseActionKind validates and normalizes an action kind name.
func ParseActionKind(raw string) (ActionKind, error) {
	trimmed := strings.TrimSpace(raw)
	switch trimmed {
	case legacyStageDepositName:
		return ActionStageDeposit, nil
	case legacyStageWithdrawalName:
		return ActionStageWithdrawal, nil
	}
	kind := ActionKind(trimmed)
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownActionKind, raw)
	}
	return kind, nil
}

// String returns the kind name.
func (kind ActionKind) String() string {
	return string(kind)
}

// Valid reports whether the kind is one of the known transitions.
func (kind ActionKind) Valid() bool {
	_, ok := knownActionKinds[kind]
	return ok
}

// ActionKinds lists every known kind in dispatch-table order.
func ActionKinds() []ActionKind {
	return []ActionKind{
		ActionOpenAccount,
		ActionStageDeposit,
		ActionStageWithdrawal,
		ActionDeposit,
		ActionWithdraw,
		ActionRequestLoan,
		ActionPayLoan,
		ActionCloseAccount,
	}
}

// DefaultAmount is the amount an action carries when its payload omits one.
// Loan actions move the standard loan; every other kind defaults to zero.
func (kind ActionKind) DefaultAmount() Amount {
	switch kind {
	case ActionRequestLoan, ActionPayLoan:
		return StandardLoanAmount
	}
	return 0
}

// Action is a single dispatched event. Amount is ignored by kinds without a payload.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Amount Amount     `json:"amount"`
}

// NewAction validates a raw kind and amount.
func NewAction(kind string, amount int64) (Action, error) {
	parsedKind, err := ParseActionKind(kind)
	if err != nil {
		return Action{}, err
	}
	parsedAmount, err := NewAmount(amount)
	if err != nil {
		return Action{}, err
	}
	return Action{Kind: parsedKind, Amount: parsedAmount}, nil
}

// NewDefaultAction validates a raw kind and gives it the kind's DefaultAmount.
func NewDefaultAction(kind string) (Action, error) {
	parsedKind, err := ParseActionKind(kind)
	if err != nil {
		return Action{}, err
	}
	return Action{Kind: parsedKind, Amount: parsedKind.DefaultAmount()}, nil
}

// UnmarshalJSON decodes {"kind": ..., "amount": ...} and validates both fields.
// A missing or null amount takes the kind's DefaultAmount.
func (action *Action) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind   string `json:"kind"`
		Amount *int64 `json:"amount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var (
		parsed Action
		err    error
	)
	if raw.Amount == nil {
		parsed, err = NewDefaultAction(raw.Kind)
	} else {
		parsed, err = NewAction(raw.Kind, *raw.Amount)
	}
	if err != nil {
		return err
	}
	*action = parsed
	return nil
}

// State is the account snapshot. It is a value type: transitions return a new copy.
type State struct {
	Balance           Amount `json:"balance"`
	Loan              Amount `json:"loan"`
	IsActive          bool   `json:"is_active"`
	PendingDeposit    Amount `json:"pending_deposit"`
	PendingWithdrawal Amount `json:"pending_withdrawal"`
}

// InitialState returns the closed, empty account.
func InitialState() State {
	return State{}
}

// HasLoan reports whether a loan is outstanding.
func (state State) HasLoan() bool {
	return state.Loan != 0
}

// CanClose reports whether closeAccount would deactivate the account.
func (state State) CanClose() bool {
	return state.IsActive && state.Balance == 0 && state.Loan == 0
}
