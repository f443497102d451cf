package models

import "github.com/shopspring/decimal"

// Money представляет денежное значение с валютой того уровня,
// который это значение предоставил
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Positive сообщает, содержит ли значение осмысленную цену.
// Нулевая цена считается незаполненной.
func (m *Money) Positive() bool {
	return m != nil && m.Amount.IsPositive()
}
