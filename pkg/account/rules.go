package account

import (
	"fmt"
	"strings"
)

// LoanPolicy decides what a requestLoan does while a loan is already outstanding.
type LoanPolicy string

const (
	// LoanPolicyReject leaves the state untouched.
	LoanPolicyReject LoanPolicy = "reject"
	// LoanPolicyOverwrite replaces the recorded loan with the new payload but
	// does not credit the balance.
	LoanPolicyOverwrite LoanPolicy = "overwrite"
)

// WithdrawalPolicy decides how a withdraw is accepted or rejected.
type WithdrawalPolicy string

const (
	// WithdrawalPolicyStaged compares the balance against the staged
	// withdrawal amount and subtracts the action amount.
	WithdrawalPolicyStaged WithdrawalPolicy = "staged"
	// WithdrawalPolicyAmount compares the balance against the action amount.
	WithdrawalPolicyAmount WithdrawalPolicy = "amount"
)

// Rules selects the behaviour of the two transitions with ambiguous guards.
type Rules struct {
	Loan       LoanPolicy
	Withdrawal WithdrawalPolicy
}

// DefaultRules rejects duplicate loans and keeps the staged withdrawal check.
func DefaultRules() Rules {
	return Rules{Loan: LoanPolicyReject, Withdrawal: WithdrawalPolicyStaged}
}

// LegacyRules overwrites the loan on a duplicate request and keeps the balance.
func LegacyRules() Rules {
	return Rules{Loan: LoanPolicyOverwrite, Withdrawal: WithdrawalPolicyStaged}
}

// StrictRules rejects duplicate loans and withdrawals larger than the balance.
func StrictRules() Rules {
	return Rules{Loan: LoanPolicyReject, Withdrawal: WithdrawalPolicyAmount}
}

// ParseRules resolves a named rule set. An empty name selects the default.
func ParseRules(name string) (Rules, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", rulesNameDefault:
		return DefaultRules(), nil
	case rulesNameLegacy:
		return LegacyRules(), nil
	case rulesNameStrict:
		return StrictRules(), nil
	default:
		return Rules{}, fmt.Errorf("%w: %q", ErrUnknownRules, name)
	}
}

// RulesNames lists the accepted ParseRules names.
func RulesNames() []string {
	return []string{rulesNameDefault, rulesNameLegacy, rulesNameStrict}
}

// Validate ensures both policies are known.
func (rules Rules) Validate() error {
	switch rules.Loan {
	case LoanPolicyReject, LoanPolicyOverwrite:
	default:
		return fmt.Errorf("%w: loan policy %q", ErrInvalidRules, rules.Loan)
	}
	switch rules.Withdrawal {
	case WithdrawalPolicyStaged, WithdrawalPolicyAmount:
	default:
		return fmt.Errorf("%w: withdrawal policy %q", ErrInvalidRules, rules.Withdrawal)
	}
	return nil
}

// String returns the rule set name, or the policy pair when it is not a named set.
func (rules Rules) String() string {
	switch rules {
	case DefaultRules():
		return rulesNameDefault
	case LegacyRules():
		return rulesNameLegacy
	case StrictRules():
		return rulesNameStrict
	}
	return fmt.Sprintf("loan=%s,withdrawal=%s", rules.Loan, rules.Withdrawal)
}
