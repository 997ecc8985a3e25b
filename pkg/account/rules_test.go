package account

import (
	"errors"
	"testing"
)

func TestParseRules(test *testing.T) {
	test.Parallel()
	testCases := []struct {
		name    string
		input   string
		want    Rules
		wantErr error
	}{
		{name: "empty", input: "", want: DefaultRules()},
		{name: "default", input: "default", want: DefaultRules()},
		{name: "legacy", input: " Legacy ", want: LegacyRules()},
		{name: "strict", input: "strict", want: StrictRules()},
		{name: "unknown", input: "lenient", wantErr: ErrUnknownRules},
	}
	for _, testCase := range testCases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			rules, err := ParseRules(testCase.input)
			if testCase.wantErr != nil {
				if !errors.Is(err, testCase.wantErr) {
					test.Fatalf(errorMismatchMessage, testCase.wantErr, err)
				}
				return
			}
			if err != nil {
				test.Fatalf("unexpected error: %v", err)
			}
			if rules != testCase.want {
				test.Fatalf(stateMismatchMessage, testCase.want, rules)
			}
		})
	}
}

func TestRulesNamesRoundTrip(test *testing.T) {
	test.Parallel()
	for _, name := range RulesNames() {
		rules, err := ParseRules(name)
		if err != nil {
			test.Fatalf("parse %q: %v", name, err)
		}
		if rules.String() != name {
			test.Fatalf("expected %q, got %q", name, rules.String())
		}
	}
}

func TestRulesValidate(test *testing.T) {
	test.Parallel()
	if err := (Rules{Loan: "maybe", Withdrawal: WithdrawalPolicyStaged}).Validate(); !errors.Is(err, ErrInvalidRules) {
		test.Fatalf(errorMismatchMessage, ErrInvalidRules, err)
	}
	if err := (Rules{Loan: LoanPolicyReject}).Validate(); !errors.Is(err, ErrInvalidRules) {
		test.Fatalf(errorMismatchMessage, ErrInvalidRules, err)
	}
	if err := StrictRules().Validate(); err != nil {
		test.Fatalf("unexpected error: %v", err)
	}
}

func TestLegacyRulesOverwriteDuplicateLoan(test *testing.T) {
	test.Parallel()
	got := LegacyRules().Transition(activeState(5800, 5000), Action{Kind: ActionRequestLoan, Amount: 700})
	want := activeState(5800, 700)
	if got != want {
		test.Fatalf(stateMismatchMessage, want, got)
	}
}

func TestStrictRulesWithdrawal(test *testing.T) {
	test.Parallel()
	rules := StrictRules()
	testCases := []struct {
		name   string
		state  State
		amount Amount
		want   State
	}{
		{
			name:   "accepted regardless of staged amount",
			state:  State{IsActive: true, Balance: 100, PendingWithdrawal: 400},
			amount: 60,
			want:   State{IsActive: true, Balance: 40},
		},
		{
			name:   "rejected when amount exceeds balance",
			state:  State{IsActive: true, Balance: 100, PendingWithdrawal: 150},
			amount: 150,
			want:   State{IsActive: true, Balance: 100, PendingWithdrawal: 150},
		},
		{
			name:   "whole balance",
			state:  activeState(100, 0),
			amount: 100,
			want:   activeState(0, 0),
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			got := rules.Transition(testCase.state, Action{Kind: ActionWithdraw, Amount: testCase.amount})
			if got != testCase.want {
				test.Fatalf(stateMismatchMessage, testCase.want, got)
			}
		})
	}
}

func TestRulesStringForCustomPair(test *testing.T) {
	test.Parallel()
	rules := Rules{Loan: LoanPolicyOverwrite, Withdrawal: WithdrawalPolicyAmount}
	if rules.String() != "loan=overwrite,withdrawal=amount" {
		test.Fatalf("unexpected name %q", rules.String())
	}
}
