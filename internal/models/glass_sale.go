package models

import "time"

// GlassSale - a glasses/lens sale in the optics shop.
type GlassSale struct {
	ID            uint `gorm:"primaryKey"`
	BranchID      uint `gorm:"index;not null"`
	Branch        Branch
	InvoiceNo     string    `gorm:"size:50;uniqueIndex;not null"`
	CustomerName  string    `gorm:"size:100;not null"`
	FrameModel    string    `gorm:"size:100"`
	LensType      string    `gorm:"size:100"` // e.g. "single vision", "bifocal", "progressive"
	PaymentMethod string    `gorm:"size:20;not null"`
	Date          time.Time `gorm:"index;not null"`
	AmountCharged float64   `gorm:"not null"`
	AmountPaid    float64   `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (s GlassSale) BalanceDue() float64 {
	return s.AmountCharged - s.AmountPaid
}
