package medicines

// ExpiryBucket clasifica un medicamento según su fecha de vencimiento.
// @Enum safe, expiring_soon, expired
type ExpiryBucket string

const (
	ExpirySafe    ExpiryBucket = "safe"
	ExpirySoon    ExpiryBucket = "expiring_soon"
	ExpiryExpired ExpiryBucket = "expired"
)

// StockStatus distingue sin-stock de stock-bajo en vez de plegarlos en un bool.
// @Enum out_of_stock, low, ok
type StockStatus string

const (
	StockOut StockStatus = "out_of_stock"
	StockLow StockStatus = "low"
	StockOK  StockStatus = "ok"
)
