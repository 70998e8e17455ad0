package model

import "time"

// Rating is a buyer review of a product.
type Rating struct {
	ID        string    `json:"id" db:"id"`
	ProductID string    `json:"productId" db:"product_id"`
	BuyerID   string    `json:"userId" db:"buyer_id"`
	BuyerName string    `json:"userName" db:"buyer_name"`
	Stars     int       `json:"rating" db:"rating"`
	Title     string    `json:"title" db:"title"`
	Comment   string    `json:"comment" db:"comment"`
	Image     string    `json:"image,omitempty" db:"image"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// RatingRequest is the payload for submitting a rating.
type RatingRequest struct {
	Stars     int    `json:"rating"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
	Image     string `json:"image,omitempty"`
	BuyerName string `json:"userName,omitempty"`
}

// RatingSummary aggregates the ratings of one product.
type RatingSummary struct {
	AverageRating float64     `json:"averageRating"`
	TotalRatings  int         `json:"totalRatings"`
	Distribution  map[int]int `json:"distribution"`
	Reviews       []Rating    `json:"reviews"`
}

// BuyerProfile is the saved billing details used to prefill checkout.
type BuyerProfile struct {
	BuyerID     string         `json:"userId"`
	Billing     BillingDetails `json:"billingDetails"`
	Coordinates *Coordinates   `json:"coordinates,omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
