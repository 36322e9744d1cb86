package models

type Plan struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	PriceMonthly    float64  `json:"price_monthly"`
	PriceAnnual     float64  `json:"price_annual"`
	DataLimitMB     int64    `json:"data_limit_mb"`
	RequestLimit    int64    `json:"request_limit"`
	ConcurrentConns int      `json:"concurrent_conns"`
	Features        []string `json:"features"`
}

type Subscription struct {
	ID        string `json:"id"`
	PlanID    string `json:"plan_id"`
	Status    string `json:"status"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	AutoRenew bool   `json:"auto_renew"`
}

type SubscriptionDetails struct {
	Subscription Subscription `json:"subscription"`
	Plan         Plan         `json:"plan"`
}

type SubscribeRequest struct {
	PlanID string `json:"plan_id"`
}

type UsageStats struct {
	PeriodStart          string `json:"period_start"`
	PeriodEnd            string `json:"period_end"`
	DataTransferredBytes int64  `json:"data_transferred_bytes"`
	RequestsMade         int64  `json:"requests_made"`
	AdsBlocked           int64  `json:"ads_blocked"`
	ThreatsBlocked       int64  `json:"threats_blocked"`
	ActiveConnections    int    `json:"active_connections"`
}

type PaymentMethod string

const (
	PaymentPaystack PaymentMethod = "paystack"
	PaymentCrypto   PaymentMethod = "crypto"
)

type CheckoutRequest struct {
	PlanID   string        `json:"plan_id"`
	Email    string        `json:"email"`
	Method   PaymentMethod `json:"method"`
	Currency string        `json:"currency,omitempty"`
}

type CheckoutResponse struct {
	URL       string `json:"url,omitempty"`
	PaymentID string `json:"payment_id,omitempty"`
	Address   string `json:"address,omitempty"`
	Amount    string `json:"amount,omitempty"`
	Currency  string `json:"currency,omitempty"`
}

type PaymentVerification struct {
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
	Amount  float64 `json:"amount,omitempty"`
	Token   string  `json:"token,omitempty"`
	Error   string  `json:"error,omitempty"`
}

func (p *PaymentVerification) IsSuccessful() bool {
	return p.Status == "success"
}
