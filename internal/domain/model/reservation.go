package model

// InventoryVerdict is the outcome of a check-and-reserve pass, consumed by the
// saga coordinator as a warehouse callback payload.
type InventoryVerdict string

const (
	VerdictSufficient            InventoryVerdict = "sufficient"
	VerdictWaitingMarketplace    InventoryVerdict = "waiting_marketplace"
	VerdictNeedsExternalPurchase InventoryVerdict = "needs_external_purchase"
)

// InventoryAnalysis reports per-ingredient sufficiency for a requirement set.
// Missing holds the shortfall per ingredient, Available the free stock of the
// ingredients that were fully covered.
type InventoryAnalysis struct {
	Sufficient bool
	Missing    map[string]int
	Available  map[string]int
}

// ReservationReport is the full result of CheckAndReserve.
type ReservationReport struct {
	Verdict   InventoryVerdict
	Missing   map[string]int
	Purchases []Purchase
	TotalCost float64
}
