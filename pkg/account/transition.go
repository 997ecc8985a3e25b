package account

// Transition applies an action to a state using DefaultRules.
func Transition(state State, action Action) State {
	return DefaultRules().Transition(state, action)
}

// Transition returns the state that follows action. It never fails: guarded
// and unrecognized actions return state unchanged. The input is never modified.
func (rules Rules) Transition(state State, action Action) State {
	if action.Kind == ActionOpenAccount {
		next := state
		next.IsActive = true
		next.Balance = OpeningDeposit
		return next
	}
	if !state.IsActive {
		return state
	}

	next := state
	switch action.Kind {
	case ActionStageDeposit:
		next.PendingDeposit = action.Amount
	case ActionStageWithdrawal:
		next.PendingWithdrawal = action.Amount
	case ActionDeposit:
		next.Balance = state.Balance + action.Amount
		next.PendingDeposit = 0
	case ActionWithdraw:
		return rules.withdraw(state, action.Amount)
	case ActionRequestLoan:
		return rules.requestLoan(state, action.Amount)
	case ActionPayLoan:
		if !state.HasLoan() {
			return state
		}
		next.Balance = state.Balance - action.Amount
		next.Loan = 0
	case ActionCloseAccount:
		next.PendingDeposit = 0
		next.PendingWithdrawal = 0
		if state.CanClose() {
			next.IsActive = false
		}
	default:
		return state
	}
	return next
}

func (rules Rules) withdraw(state State, amount Amount) State {
	next := state
	if rules.Withdrawal == WithdrawalPolicyAmount {
		if state.Balance == 0 || amount > state.Balance {
			return state
		}
		next.Balance = state.Balance - amount
		next.PendingWithdrawal = 0
		return next
	}

	// The staged amount gates the withdrawal; the action amount is what leaves
	// the account. Both checks read the pre-action balance.
	if state.Balance != 0 && state.Balance >= state.PendingWithdrawal {
		next.Balance = state.Balance - amount
	}
	if state.Balance >= state.PendingWithdrawal {
		next.PendingWithdrawal = 0
	}
	return next
}

func (rules Rules) requestLoan(state State, amount Amount) State {
	next := state
	if state.HasLoan() {
		if rules.Loan == LoanPolicyOverwrite {
			next.Loan = amount
		}
		return next
	}
	next.Loan = amount
	next.Balance = state.Balance + amount
	return next
}
