package models

// Dashboard is everything the dashboard screen renders on mount.
type Dashboard struct {
	Profile            *Profile      `json:"profile"`
	RecentTransactions []Transaction `json:"recent_transactions"`
	BankAccounts       []BankAccount `json:"bank_accounts"`
	CanWithdraw        bool          `json:"can_withdraw"`
}

// Landing is the public landing payload.
type Landing struct {
	Name     string   `json:"name"`
	Tagline  string   `json:"tagline"`
	Version  string   `json:"version"`
	Features []string `json:"features"`
	Docs     string   `json:"docs"`
}
