package ledger

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

// TransactionType is the direction of a transaction relative to the viewing account.
type TransactionType string

const (
	TransactionSend    TransactionType = "send"
	TransactionReceive TransactionType = "receive"
	TransactionRequest TransactionType = "request"
)

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Asset is a holding of the active account, valued in USD.
type Asset struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	// Balance is in display units.
	Balance float64 `json:"balance"`
	// USDValue is the unit price in USD.
	USDValue      float64 `json:"usdValue"`
	Change24h     float64 `json:"change24h"`
	ChangePercent float64 `json:"changePercent"`
	ContractID    string  `json:"contractId,omitempty"`
	Decimals      int32   `json:"decimals"`
}

// Transaction is the normalized view of a ledger or demo transaction.
type Transaction struct {
	ID          string            `json:"id"`
	Type        TransactionType   `json:"type"`
	Amount      float64           `json:"amount"`
	AssetSymbol string            `json:"assetSymbol"`
	FromAddress string            `json:"fromAddress"`
	ToAddress   string            `json:"toAddress"`
	FromUserID  string            `json:"fromUserId,omitempty"`
	ToUserID    string            `json:"toUserId,omitempty"`
	Status      TransactionStatus `json:"status"`
	Message     string            `json:"message,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Hash        string            `json:"hash,omitempty"`
	Fee         float64           `json:"fee,omitempty"`
}

// Resource is a raw on-chain state record of an account.
type Resource struct {
	Type string              `json:"type"`
	Data jsoniter.RawMessage `json:"data"`
}

// RawTransaction is a committed transaction as returned by the node API.
type RawTransaction struct {
	Type         string   `json:"type"`
	Hash         string   `json:"hash"`
	Version      string   `json:"version"`
	Sender       string   `json:"sender"`
	Success      bool     `json:"success"`
	VMStatus     string   `json:"vm_status"`
	GasUsed      string   `json:"gas_used"`
	GasUnitPrice string   `json:"gas_unit_price"`
	Timestamp    string   `json:"timestamp"`
	Payload      *Payload `json:"payload,omitempty"`
}

// Payload is an entry function call.
type Payload struct {
	Type          string   `json:"type"`
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []any    `json:"arguments"`
}

// SubmitRequest describes a transfer to be signed and submitted.
type SubmitRequest struct {
	From     *Account
	To       string
	Amount   uint64
	CoinType string
}
