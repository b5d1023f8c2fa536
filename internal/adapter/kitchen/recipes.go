package kitchen

import "github.com/dgaraz/fulfillment/internal/domain/model"

// DefaultRecipes is the canonical recipe catalog served by the kitchen.
// Kept here as the reference snapshot for local stubs and tests.
func DefaultRecipes() []model.Recipe {
	return []model.Recipe{
		{
			ID:          "1",
			Name:        "Margherita Pizza",
			Description: "Classic Italian pizza with tomato, cheese and onion",
			Ingredients: map[string]int{
				"tomato": 3, "cheese": 3, "onion": 2, "flour": 4, "olive_oil": 1,
			},
			PreparationTime: 25,
		},
		{
			ID:          "2",
			Name:        "Caesar Salad",
			Description: "Fresh romaine lettuce with cheese and onion",
			Ingredients: map[string]int{
				"lettuce": 4, "cheese": 2, "onion": 1, "lemon": 1, "croutons": 2,
			},
			PreparationTime: 15,
		},
		{
			ID:          "3",
			Name:        "Grilled Chicken",
			Description: "Juicy grilled chicken with lemon and onion",
			Ingredients: map[string]int{
				"chicken": 5, "lemon": 2, "onion": 2, "potato": 3, "olive_oil": 2,
			},
			PreparationTime: 35,
		},
		{
			ID:          "4",
			Name:        "Classic Burger",
			Description: "Delicious burger with meat, cheese and fresh vegetables",
			Ingredients: map[string]int{
				"meat": 4, "cheese": 2, "lettuce": 2, "tomato": 2, "onion": 1,
			},
			PreparationTime: 20,
		},
		{
			ID:          "5",
			Name:        "Meat and Rice Bowl",
			Description: "Hearty rice bowl with seasoned meat and cheese",
			Ingredients: map[string]int{
				"rice": 4, "meat": 3, "cheese": 2, "onion": 2, "tomato": 2,
			},
			PreparationTime: 18,
		},
		{
			ID:          "6",
			Name:        "Chicken Rice Bowl",
			Description: "Fresh chicken rice bowl with lemon and vegetables",
			Ingredients: map[string]int{
				"chicken": 4, "rice": 3, "lemon": 2, "lettuce": 2, "cheese": 1,
			},
			PreparationTime: 22,
		},
	}
}
