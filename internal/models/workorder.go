package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WorkOrderStatus string

const (
	StatusWaiting    WorkOrderStatus = "Aguardando"
	StatusInProgress WorkOrderStatus = "Em Andamento"
	StatusFinished   WorkOrderStatus = "Finalizado"
	StatusDelivered  WorkOrderStatus = "Entregue"
)

var workOrderStatusRank = map[WorkOrderStatus]int{
	StatusWaiting:    0,
	StatusInProgress: 1,
	StatusFinished:   2,
	StatusDelivered:  3,
}

func (s WorkOrderStatus) Valid() bool {
	_, ok := workOrderStatusRank[s]
	return ok
}

// Rank is the position of s in the lifecycle, or -1 for unknown values.
func (s WorkOrderStatus) Rank() int {
	if r, ok := workOrderStatusRank[s]; ok {
		return r
	}
	return -1
}

// ChecksOut reports whether entering s stamps the checkout time.
func (s WorkOrderStatus) ChecksOut() bool {
	return s == StatusFinished || s == StatusDelivered
}

type PaymentMethod string

const (
	PaymentPix    PaymentMethod = "pix"
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
	PaymentCash   PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentPix, PaymentCredit, PaymentDebit, PaymentCash:
		return true
	}
	return false
}

type WorkOrder struct {
	ID              int64           `json:"id" db:"id"`
	CustomerID      int64           `json:"customerId" db:"customer_id"`
	VehicleID       int64           `json:"vehicleId" db:"vehicle_id"`
	Services        []Service       `json:"services"`
	Employee        *string         `json:"employee,omitempty" db:"employee"`
	Status          WorkOrderStatus `json:"status" db:"status"`
	CheckinTime     time.Time       `json:"checkinTime" db:"checkin_time"`
	CheckoutTime    *time.Time      `json:"checkoutTime,omitempty" db:"checkout_time"`
	DamageLog       *string         `json:"damageLog,omitempty" db:"damage_log"`
	Total           decimal.Decimal `json:"total" db:"total"`
	IsPaid          bool            `json:"isPaid" db:"is_paid"`
	PaymentMethod   *PaymentMethod  `json:"paymentMethod,omitempty" db:"payment_method"`
	StockConsumedAt *time.Time      `json:"stockConsumedAt,omitempty" db:"stock_consumed_at"`
}

// HasService reports whether the order includes the service with the given id.
func (w WorkOrder) HasService(serviceID int64) bool {
	for _, s := range w.Services {
		if s.ID == serviceID {
			return true
		}
	}
	return false
}
