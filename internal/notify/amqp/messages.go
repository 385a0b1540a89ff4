package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
)

// AlertMessage is the body published for each new budget alert.
type AlertMessage struct {
	Category string          `json:"category"`
	Percent  decimal.Decimal `json:"percent"`
	Message  string          `json:"message"`
	RaisedAt time.Time       `json:"raisedAt"`
}

func NewAlertMessage(a finance.Alert) *AlertMessage {
	return &AlertMessage{
		Category: a.Category,
		Percent:  a.Percent,
		Message:  a.Message,
		RaisedAt: a.RaisedAt,
	}
}

func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
