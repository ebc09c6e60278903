package service

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/tx-ledger/internal/ledger"
)

// NewTransaction is the caller-supplied part of a transaction record.
type NewTransaction struct {
	ID          ledger.TransactionID
	Type        ledger.TransactionType
	Amount      decimal.Decimal
	Description string
}

// HistoryQuery selects a page of a user's transactions. Zero-valued Type
// and Status match everything.
type HistoryQuery struct {
	User     ledger.Identity
	Page     int
	PageSize int
	Type     ledger.TransactionType
	Status   ledger.Status
}

// LedgerInfo is static descriptive data about the running ledger.
type LedgerInfo struct {
	Name    string
	Version string
	Admin   ledger.Identity
}
