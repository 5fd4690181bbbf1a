package postgres

import (
	"time"
)

// TransactionModel mirrors a row of the transactions table. Amounts travel as
// text so NUMERIC precision survives the round trip.
type TransactionModel struct {
	GatewayPaymentID string
	OrderID          string
	Family           string
	State            string
	Amount           string
	Currency         string
	RefundedAmount   string
	Action           []byte
	LastError        []byte
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
