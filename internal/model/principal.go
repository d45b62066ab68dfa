package model

import "time"

// Principal is the authenticated actor a session belongs to.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
	Token string `json:"-"`
}

type Technician struct {
	Principal
	Skills      []string `json:"skills,omitempty"`
	Rating      float64  `json:"rating"`
	RatingCount int      `json:"ratingCount"`
	Available   bool     `json:"available"`
}

type Coupon struct {
	Code            string    `json:"code"`
	DiscountPercent int       `json:"discountPercent"`
	ExpiresAt       time.Time `json:"expiresAt"`
	Active          bool      `json:"active"`
}
