package domain

import "time"

// PaymentType distinguishes what a payment is for.
type PaymentType string

const (
	PaymentDonation        PaymentType = "donation"
	PaymentProjectPurchase PaymentType = "project_purchase"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// PaymentRequest asks the backend to prepare a payment.
type PaymentRequest struct {
	Type      PaymentType `json:"type"`
	Amount    string      `json:"amount"`
	ToUserID  string      `json:"toUserId,omitempty"`
	ProjectID string      `json:"projectId,omitempty"`
}

// Transaction is an unsigned transaction for the wallet to send. Value and
// GasLimit are integers in decimal or 0x-prefixed hex; Value is in wei.
type Transaction struct {
	To       string `json:"to"`
	Value    string `json:"value"`
	Data     string `json:"data,omitempty"`
	GasLimit string `json:"gasLimit,omitempty"`
}

// PaymentIntent is the backend's answer to a PaymentRequest: the pending
// payment and the transaction that settles it.
type PaymentIntent struct {
	Payment     Payment     `json:"payment"`
	Transaction Transaction `json:"transaction"`
}

// PaymentParty is the counterpart shown in payment history.
type PaymentParty struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

// Payment is a recorded payment.
type Payment struct {
	ID         string        `json:"id"`
	Type       PaymentType   `json:"type"`
	Amount     string        `json:"amount"`
	Status     string        `json:"status"`
	FromUserID string        `json:"fromUserId,omitempty"`
	ToUserID   string        `json:"toUserId,omitempty"`
	TxHash     string        `json:"transactionHash,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
	User       *PaymentParty `json:"user,omitempty"`
}

// Receipt is the mined outcome of a transaction.
type Receipt struct {
	TxHash      string `json:"transactionHash"`
	BlockNumber uint64 `json:"blockNumber"`
	Success     bool   `json:"success"`
	GasUsed     uint64 `json:"gasUsed"`
}
