package domain

import "time"

type OrderStatus string

// Full lifecycle as modeled in the content store. The reconciliation flow
// only ever writes OrderStatusPaid; the rest are set by back-office tooling.
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

type OrderLineItem struct {
	Key       string `bson:"key" json:"key"`
	ProductID string `bson:"product_id" json:"product_id"`
	Quantity  int64  `bson:"quantity" json:"quantity"`
}

// Order is created exactly once per completed payment and is immutable
// within this flow's responsibility. CustomerEmail is duplicated under a
// second field name to match the content-store document shape.
type Order struct {
	ID              string          `bson:"_id,omitempty" json:"id"`
	OrderNumber     string          `bson:"order_number" json:"order_number"`
	SessionID       string          `bson:"session_id" json:"session_id"`
	PaymentIntentID string          `bson:"payment_intent_id" json:"payment_intent_id"`
	CustomerID      string          `bson:"customer_id,omitempty" json:"customer_id,omitempty"`
	CustomerName    string          `bson:"customer_name" json:"customer_name"`
	CustomerEmail   string          `bson:"customer_email" json:"customer_email"`
	Email           string          `bson:"email" json:"email"`
	UserID          string          `bson:"user_id" json:"user_id"`
	Currency        string          `bson:"currency" json:"currency"`
	AmountDiscount  int64           `bson:"amount_discount" json:"amount_discount"`
	Items           []OrderLineItem `bson:"items" json:"items"`
	TotalPrice      int64           `bson:"total_price" json:"total_price"`
	Status          OrderStatus     `bson:"status" json:"status"`
	OrderDate       time.Time       `bson:"order_date" json:"order_date"`
}
