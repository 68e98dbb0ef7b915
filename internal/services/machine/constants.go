package machine

// Operation names used for metrics, spans and logs
const (
	OperationDeposit  = "deposit"
	OperationPurchase = "purchase"
	OperationReset    = "reset"
)

const (
	ResultSuccess = "success"

	tracerName = "vending/internal/services/machine"
)
