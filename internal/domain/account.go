package domain

import "time"

// SyncStatus tracks the state of an account's last provider sync.
type SyncStatus string

const (
	SyncIdle    SyncStatus = "idle"
	SyncRunning SyncStatus = "syncing"
	SyncOK      SyncStatus = "ok"
	SyncError   SyncStatus = "error"
)

// Account is a linked trading account identified by a wallet address.
type Account struct {
	ID            string     `json:"id"`
	Chain         string     `json:"chain"`
	WalletAddress string     `json:"walletAddress"`
	Label         string     `json:"label,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastSyncedAt  *time.Time `json:"lastSyncedAt,omitempty"`
	LastSyncedSig string     `json:"lastSyncedSig,omitempty"`
	SyncStatus    SyncStatus `json:"syncStatus"`
	SyncErrorMsg  string     `json:"syncError,omitempty"`
}

// SyncStatePatch updates an account's sync bookkeeping after a sync
// attempt. Nil pointer fields are left unchanged.
type SyncStatePatch struct {
	Status        *SyncStatus
	LastSyncedAt  *time.Time
	LastSyncedSig *string
	Error         *string
}

// ImportSource identifies how a batch of fills entered the system.
type ImportSource string

const (
	ImportCSV     ImportSource = "csv"
	ImportManual  ImportSource = "manual"
	ImportMock    ImportSource = "mock"
	ImportIndexer ImportSource = "indexer"
	ImportAPI     ImportSource = "api"
)

// ImportStatus is the lifecycle state of an import batch.
type ImportStatus string

const (
	ImportPending   ImportStatus = "pending"
	ImportProcessed ImportStatus = "processed"
	ImportFailed    ImportStatus = "failed"
)

// ImportRecord is the provenance row for a batch of inserted fills.
type ImportRecord struct {
	ID          string       `json:"id"`
	SourceType  ImportSource `json:"sourceType"`
	SourceLabel string       `json:"sourceLabel,omitempty"`
	FileHash    string       `json:"fileHash,omitempty"`
	AccountID   string       `json:"accountId,omitempty"`
	Status      ImportStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
}
