package enum

// ── Group A: State machines (CHECK constrained in DB) ──

const (
	OrderStatusOpen       = "OPEN"
	OrderStatusSent       = "SENT"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusReady      = "READY"
	OrderStatusServed     = "SERVED"
	OrderStatusClosed     = "CLOSED"
	OrderStatusVoid       = "VOID"
)

const (
	ItemStatusPending    = "PENDING"
	ItemStatusHeld       = "HELD"
	ItemStatusFired      = "FIRED"
	ItemStatusInProgress = "IN_PROGRESS"
	ItemStatusReady      = "READY"
	ItemStatusServed     = "SERVED"
	ItemStatusVoid       = "VOID"
)

// ── Group C: Borderline (CHECK constrained in DB) ──

const (
	UserRoleOwner   = "OWNER"
	UserRoleManager = "MANAGER"
	UserRoleServer  = "SERVER"
	UserRoleKitchen = "KITCHEN"
)

const (
	OrderTypeDineIn   = "DINE_IN"
	OrderTypeTakeout  = "TAKEOUT"
	OrderTypeDelivery = "DELIVERY"
	OrderTypeBarTab   = "BAR_TAB"
)

const (
	PaymentMethodCash         = "CASH"
	PaymentMethodCredit       = "CREDIT"
	PaymentMethodDebit        = "DEBIT"
	PaymentMethodGiftCard     = "GIFT_CARD"
	PaymentMethodHouseAccount = "HOUSE_ACCOUNT"
	PaymentMethodComp         = "COMP"
)

const (
	DiscountTypePercentage = "PERCENTAGE"
	DiscountTypeFixed      = "FIXED_AMOUNT"
)

// ── Group B: Kitchen display labels (no DB constraint) ──

const (
	TicketStatusNew     = "new"
	TicketStatusCooking = "cooking"
	TicketStatusLate    = "late"
	TicketStatusReady   = "ready"
)

const (
	SplitEven   = "even"
	SplitBySeat = "seat"
	SplitCustom = "custom"
)

// IsOrderType reports whether s is a known order type.
func IsOrderType(s string) bool {
	switch s {
	case OrderTypeDineIn, OrderTypeTakeout, OrderTypeDelivery, OrderTypeBarTab:
		return true
	}
	return false
}

// IsPaymentMethod reports whether s is a known payment method.
func IsPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodCash, PaymentMethodCredit, PaymentMethodDebit,
		PaymentMethodGiftCard, PaymentMethodHouseAccount, PaymentMethodComp:
		return true
	}
	return false
}

// IsDiscountType reports whether s is a known discount type.
func IsDiscountType(s string) bool {
	return s == DiscountTypePercentage || s == DiscountTypeFixed
}
