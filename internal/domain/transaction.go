package domain

import (
	"time"
)

// DateLayout is the ISO date format used for transaction dates.
const DateLayout = "2006-01-02"

// ExtractionResult is the structured candidate transaction produced by the
// model. It is never committed directly; it always passes through review.
type ExtractionResult struct {
	Merchant     string       `json:"merchant"`
	Amount       float64      `json:"amount"`
	CategoryName string       `json:"categoryName"`
	CategoryType CategoryType `json:"categoryType"`
	Date         string       `json:"date"` // YYYY-MM-DD
	IsRecurring  bool         `json:"isRecurring,omitempty"`
}

// ParsedDate returns Date as a time.Time in UTC.
func (r ExtractionResult) ParsedDate() (time.Time, error) {
	return time.Parse(DateLayout, r.Date)
}

// SplitDetails describes an even split of a transaction among several people.
// It is ephemeral: it is attached to the confirmation outcome and never
// stored against a category.
type SplitDetails struct {
	TotalAmount     float64 `json:"totalAmount"`
	NumberOfPeople  int     `json:"numberOfPeople"`
	AmountPerPerson float64 `json:"amountPerPerson"`
	ShareLink       string  `json:"shareLink"`
	QRImageURL      string  `json:"qrImageUrl"`
	IsSplit         bool    `json:"isSplit"`
}

// Friends returns how many people besides the payer share the bill.
func (s SplitDetails) Friends() int {
	return s.NumberOfPeople - 1
}
