package account

const (
	// OpeningDeposit is the balance an account starts with when opened.
	OpeningDeposit Amount = 500
	// StandardLoanAmount is the loan size used when a loan action names no amount.
	StandardLoanAmount Amount = 5000
	// MaxAmount bounds a single payload so balances cannot wrap around.
	MaxAmount Amount = 1_000_000_000_000

	operationStatusApplied = "applied"
	operationStatusIgnored = "ignored"

	rulesNameDefault = "default"
	rulesNameLegacy  = "legacy"
	rulesNameStrict  = "strict"
)
