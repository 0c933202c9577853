package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
)

// Response is the JSON shape of a logged stock movement.
type Response struct {
	ID          uuid.UUID              `json:"id"`
	ProductID   uuid.UUID              `json:"product_id"`
	ProductName string                 `json:"product_name"`
	Type        ledger.TransactionType `json:"type"`
	Quantity    int                    `json:"quantity"`
	Date        time.Time              `json:"date"`
	UserID      string                 `json:"user_id"`
}

func ToResponse(tx ledger.Transaction) Response {
	return Response{
		ID:          tx.ID,
		ProductID:   tx.ProductID,
		ProductName: tx.ProductName,
		Type:        tx.Type,
		Quantity:    tx.Quantity,
		Date:        tx.Date,
		UserID:      tx.UserID,
	}
}

func ToResponseList(txs []ledger.Transaction) []Response {
	out := make([]Response, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ToResponse(tx))
	}

	return out
}
