package models

import "time"

// LabTest - a laboratory test billed to a patient. AmountPaid may be less
// than AmountCharged (partial payment) or more (overpayment is allowed).
type LabTest struct {
	ID            uint `gorm:"primaryKey"`
	BranchID      uint `gorm:"index;not null"`
	Branch        Branch
	InvoiceNo     string    `gorm:"size:50;uniqueIndex;not null"`
	PatientName   string    `gorm:"size:100;not null"`
	TestType      string    `gorm:"size:100;not null"` // e.g. "blood", "urine", "x-ray"
	Date          time.Time `gorm:"index;not null"`
	AmountCharged float64   `gorm:"not null"`
	AmountPaid    float64   `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BalanceDue - remaining amount owed by the patient. Negative when overpaid.
func (t LabTest) BalanceDue() float64 {
	return t.AmountCharged - t.AmountPaid
}
