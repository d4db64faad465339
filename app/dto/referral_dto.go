package dto

// CreateReferralLinkRequest asks for the caller's shareable link for a product.
type CreateReferralLinkRequest struct {
	ProductID uint `json:"product_id" validate:"required,gt=0"`

	// UserID is set from the authenticated context, never from the body.
	UserID uint `json:"-"`
}

// ReferralLinkResponse carries the public code and the fully-built URLs.
type ReferralLinkResponse struct {
	Code     string `json:"code"`
	URL      string `json:"url"`
	ShortURL string `json:"shortUrl"`
}

// ReferralLinkStatsDTO is one row of the ambassador's link dashboard.
type ReferralLinkStatsDTO struct {
	ID              uint    `json:"id"`
	ProductID       uint    `json:"product_id"`
	Code            string  `json:"code"`
	URL             string  `json:"url"`
	Clicks          int64   `json:"clicks"`
	Conversions     int64   `json:"conversions"`
	TotalCommission float64 `json:"total_commission"`
	CreatedAt       string  `json:"created_at"`
}

// TrackClickRequest reports a click on a referral code.
type TrackClickRequest struct {
	Code string `json:"code" validate:"required,len=8"`
}

// TrackClickResponse is the classification outcome for one click.
type TrackClickResponse struct {
	Success    bool     `json:"success"`
	Suspicious bool     `json:"suspicious"`
	Reasons    []string `json:"reasons"`
	ProductID  uint     `json:"product_id"`
}
