package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups costs, e.g. "Maintenance" or "Events".
type Category struct {
	DefaultModel
	User   User      `json:"-"`
	UserID uuid.UUID `gorm:"uniqueIndex:category_name_user_id"`
	Name   string    `gorm:"uniqueIndex:category_name_user_id"`
	Note   string
}

var ErrCategoryNameNotUnique = errors.New("the category name must be unique for the user")

// BeforeSave trims whitespace from all strings
func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)

	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Category)
	return c.checkIntegrity(tx, *toSave)
}

func (c *Category) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(Category)
	if tx.Statement.Changed("UserID") {
		return c.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (c *Category) checkIntegrity(tx *gorm.DB, toSave Category) error {
	return tx.First(&User{}, toSave.UserID).Error
}
