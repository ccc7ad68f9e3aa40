package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IncomeSource represents a named channel through which receipts arrive,
// e.g. "Membership Dues".
type IncomeSource struct {
	DefaultModel
	User     User      `json:"-"`
	UserID   uuid.UUID `gorm:"uniqueIndex:income_source_name_user_id"`
	Name     string    `gorm:"uniqueIndex:income_source_name_user_id"`
	Note     string
	Archived bool
}

var ErrIncomeSourceNameNotUnique = errors.New("the income source name must be unique for the user")

// BeforeSave trims whitespace from all strings
func (i *IncomeSource) BeforeSave(_ *gorm.DB) error {
	i.Name = strings.TrimSpace(i.Name)
	i.Note = strings.TrimSpace(i.Note)

	return nil
}

func (i *IncomeSource) BeforeCreate(tx *gorm.DB) error {
	_ = i.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*IncomeSource)
	return i.checkIntegrity(tx, *toSave)
}

func (i *IncomeSource) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(IncomeSource)
	if tx.Statement.Changed("UserID") {
		return i.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (i *IncomeSource) checkIntegrity(tx *gorm.DB, toSave IncomeSource) error {
	return tx.First(&User{}, toSave.UserID).Error
}
