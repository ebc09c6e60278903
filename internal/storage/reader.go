package storage

// Reader sees committed state only.
type Reader struct {
	Transactions ITransactionReader
	UserIndex    IUserIndexReader
	Preferences  IPreferenceReader
	Counters     ICounterReader
	Audit        IAuditReader
}
