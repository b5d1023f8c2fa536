package model

// DefaultInventory returns the opening stock of the warehouse, matching the
// ingredient set used by the kitchen recipes.
func DefaultInventory() []InventoryRecord {
	return []InventoryRecord{
		{Ingredient: "tomato", Quantity: 15, Unit: "kg"},
		{Ingredient: "cheese", Quantity: 12, Unit: "kg"},
		{Ingredient: "onion", Quantity: 10, Unit: "kg"},
		{Ingredient: "lettuce", Quantity: 8, Unit: "kg"},
		{Ingredient: "meat", Quantity: 15, Unit: "kg"},
		{Ingredient: "chicken", Quantity: 15, Unit: "kg"},
		{Ingredient: "rice", Quantity: 12, Unit: "kg"},
		{Ingredient: "lemon", Quantity: 8, Unit: "kg"},
		{Ingredient: "potato", Quantity: 10, Unit: "kg"},
		{Ingredient: "flour", Quantity: 10, Unit: "kg"},
		{Ingredient: "olive_oil", Quantity: 8, Unit: "liters"},
		{Ingredient: "croutons", Quantity: 5, Unit: "kg"},
		{Ingredient: "ketchup", Quantity: 5, Unit: "liters"},
	}
}
