package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"gorm.io/gorm"
)

// MatchRule attributes receipts without an income source to one, based on a
// glob match against the receipt note.
type MatchRule struct {
	DefaultModel
	User           User      `json:"-"`
	UserID         uuid.UUID
	IncomeSource   IncomeSource `json:"-"`
	IncomeSourceID uuid.UUID
	Priority       uint
	Match          string
}

// BeforeSave trims whitespace from all strings
func (m *MatchRule) BeforeSave(_ *gorm.DB) error {
	m.Match = strings.TrimSpace(m.Match)
	return nil
}

func (m *MatchRule) BeforeCreate(tx *gorm.DB) error {
	_ = m.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*MatchRule)
	return m.checkIntegrity(tx, *toSave)
}

// BeforeUpdate verifies only the references that change. The Dest struct
// is sparse on partial updates, so unchanged references must not be read
// from it.
func (m *MatchRule) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(MatchRule)

	if tx.Statement.Changed("UserID") {
		err := tx.First(&User{}, toSave.UserID).Error
		if err != nil {
			return err
		}
	}

	if tx.Statement.Changed("IncomeSourceID") {
		return tx.First(&IncomeSource{}, toSave.IncomeSourceID).Error
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (m *MatchRule) checkIntegrity(tx *gorm.DB, toSave MatchRule) error {
	err := tx.First(&User{}, toSave.UserID).Error
	if err != nil {
		return err
	}

	return tx.First(&IncomeSource{}, toSave.IncomeSourceID).Error
}

// matchIncomeSource returns the income source of the first match rule whose
// pattern matches the note. Rules are checked by ascending priority, ties
// are broken by creation time.
//
// A nil return value means that no rule matched, which is not an error.
func matchIncomeSource(tx *gorm.DB, userID uuid.UUID, note string) (*uuid.UUID, error) {
	var rules []MatchRule
	err := tx.
		Where(&MatchRule{UserID: userID}).
		Order("priority ASC, datetime(created_at) ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}

	for _, rule := range rules {
		if glob.Glob(rule.Match, note) {
			id := rule.IncomeSourceID
			return &id, nil
		}
	}

	return nil, nil
}
