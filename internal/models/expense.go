package models

import "time"

type ExpenseCategory struct {
	ID        uint   `gorm:"primaryKey"`
	BranchID  uint   `gorm:"index;not null"`
	Branch    Branch
	Name      string `gorm:"size:100;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ExpenseType string

const (
	ExpenseTypeNormal       ExpenseType = "normal"
	ExpenseTypeDoctorSalary ExpenseType = "doctor_salary"
)

// Expense - a dated outgoing amount. A doctor_salary expense is derived once
// at creation time as a percentage of revenue collected over FromDate..ToDate;
// the derivation fields are frozen and Amount stays authoritative even when
// the underlying revenue records change afterwards.
type Expense struct {
	ID          uint `gorm:"primaryKey"`
	BranchID    uint `gorm:"index;not null"`
	Branch      Branch
	CategoryID  uint `gorm:"index;not null"`
	Category    ExpenseCategory
	Type        ExpenseType `gorm:"size:20;not null;default:normal"`
	Date        time.Time   `gorm:"index;not null"`
	Amount      float64     `gorm:"not null"`
	Description string      `gorm:"size:255"`

	// doctor_salary derivation snapshot (nil for normal expenses)
	Percentage     *float64
	CalculatedFrom *float64 // revenue collected in the sub-period at creation time
	FromDate       *time.Time
	ToDate         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
