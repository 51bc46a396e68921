package models

import "time"

// PharmacyItem - a stock line in the pharmacy. InitialQuantity is the
// quantity first stocked; QuantityOnHand goes down with each sale.
type PharmacyItem struct {
	ID              uint `gorm:"primaryKey"`
	BranchID        uint `gorm:"index;not null"`
	Branch          Branch
	Name            string  `gorm:"size:100;not null"`
	UnitPrice       float64 `gorm:"not null"`
	InitialQuantity int     `gorm:"not null"`
	QuantityOnHand  int     `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RemainingPercent - how much of the initial stock is still on hand, 0-100.
func (i PharmacyItem) RemainingPercent() float64 {
	if i.InitialQuantity <= 0 {
		return 0
	}
	return float64(i.QuantityOnHand) / float64(i.InitialQuantity) * 100
}

type PharmacySale struct {
	ID            uint `gorm:"primaryKey"`
	BranchID      uint `gorm:"index;not null"`
	Branch        Branch
	ItemID        uint `gorm:"index;not null"`
	Item          PharmacyItem
	InvoiceNo     string    `gorm:"size:50;uniqueIndex;not null"`
	CustomerName  string    `gorm:"size:100;not null"`
	PaymentMethod string    `gorm:"size:20;not null"` // "cash" / "card" / "mobile"
	Quantity      int       `gorm:"not null"`
	Date          time.Time `gorm:"index;not null"`
	AmountCharged float64   `gorm:"not null"`
	AmountPaid    float64   `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (s PharmacySale) BalanceDue() float64 {
	return s.AmountCharged - s.AmountPaid
}
