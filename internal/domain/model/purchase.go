package model

import "time"

// Purchase records one marketplace buy attempt outcome.
type Purchase struct {
	OrderID    string    `json:"order_id,omitempty"`
	Ingredient string    `json:"ingredient"`
	Requested  int       `json:"requested"`
	Obtained   int       `json:"obtained"`
	Cost       float64   `json:"cost"`
	Supplier   string    `json:"supplier"`
	Success    bool      `json:"success"`
	CreatedAt  time.Time `json:"created_at"`
}
