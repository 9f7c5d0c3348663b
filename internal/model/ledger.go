package model

import "time"

// LocalCurrency is the ledger's home currency. Anything else counts as FX.
const LocalCurrency = "KZT"

// Transaction is a single card purchase from a client's 3-month ledger.
// Amounts are non-negative spend in the transaction's currency.
type Transaction struct {
	Date     time.Time
	Category string
	Currency string
	Amount   float64
}

// IsForeignCurrency reports whether the transaction was made in a non-local currency.
func (t Transaction) IsForeignCurrency() bool {
	return t.Currency != "" && t.Currency != LocalCurrency
}

// TransferDirection distinguishes inbound from outbound transfers.
type TransferDirection string

// Transfer directions.
const (
	DirectionIn  TransferDirection = "in"
	DirectionOut TransferDirection = "out"
)

// Transfer kinds observed in the ledgers. The set is open: unknown kinds are
// carried through aggregation untouched.
const (
	TransferSalaryIn           = "salary_in"
	TransferStipendIn          = "stipend_in"
	TransferFamilyIn           = "family_in"
	TransferCashbackIn         = "cashback_in"
	TransferRefundIn           = "refund_in"
	TransferCardIn             = "card_in"
	TransferP2POut             = "p2p_out"
	TransferCardOut            = "card_out"
	TransferATMWithdrawal      = "atm_withdrawal"
	TransferUtilitiesOut       = "utilities_out"
	TransferLoanPaymentOut     = "loan_payment_out"
	TransferCCRepaymentOut     = "cc_repayment_out"
	TransferInstallmentOut     = "installment_payment_out"
	TransferFXBuy              = "fx_buy"
	TransferFXSell             = "fx_sell"
	TransferInvestOut          = "invest_out"
	TransferInvestIn           = "invest_in"
	TransferDepositTopupOut    = "deposit_topup_out"
	TransferDepositFXTopupOut  = "deposit_fx_topup_out"
	TransferDepositFXWithdraw  = "deposit_fx_withdraw_in"
	TransferGoldBuyOut         = "gold_buy_out"
	TransferGoldSellIn         = "gold_sell_in"
)

// Transfer is a single money movement (non-purchase) from a client's ledger.
type Transfer struct {
	Date      time.Time
	Type      string
	Direction TransferDirection
	Currency  string
	Amount    float64
}
