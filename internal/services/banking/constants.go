package banking

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecentTransactionsLimit is how many transactions the dashboard shows.
const RecentTransactionsLimit = 10

// Verification payment terms.
const (
	VerificationRecipientAccount = "9163110673"
	VerificationRecipientName    = "Abdullahi"
	VerificationRecipientBank    = "Opay"
	VerificationReferencePrefix  = "VP"
	VerificationDescription      = "Account verification fee"
)

// VerificationFee is the fixed amount of a verification payment.
var VerificationFee = decimal.NewFromInt(6000)

const verificationLockTTL = 10 * time.Second
