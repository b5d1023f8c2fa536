package model

// Recipe is a snapshot of a kitchen recipe at selection time. Ingredient
// amounts are per single portion.
type Recipe struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	Ingredients     map[string]int `json:"ingredients"`
	PreparationTime int            `json:"preparation_time"`
}
