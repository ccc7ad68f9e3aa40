package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kassenwart/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestMatchRuleTrimWhitespace() {
	user := suite.createTestUser(models.User{})
	source := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})

	rule := suite.createTestMatchRule(models.MatchRule{
		UserID:         user.ID,
		IncomeSourceID: source.ID,
		Match:          " *Salary* ",
	})

	assert.Equal(suite.T(), "*Salary*", rule.Match)
}

func (suite *TestSuiteStandard) TestMatchRuleIntegrity() {
	user := suite.createTestUser(models.User{})
	source := suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID})

	tests := []struct {
		name           string
		userID         uuid.UUID
		incomeSourceID uuid.UUID
		err            error
	}{
		{"valid", user.ID, source.ID, nil},
		{"no such user", uuid.New(), source.ID, models.ErrResourceNotFound},
		{"no such income source", user.ID, uuid.New(), models.ErrResourceNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			err := models.DB.Create(&models.MatchRule{
				UserID:         tt.userID,
				IncomeSourceID: tt.incomeSourceID,
				Match:          "*",
			}).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestMatchRuleBeforeUpdate() {
	user := suite.createTestUser(models.User{})
	rule := suite.createTestMatchRule(models.MatchRule{
		UserID:         user.ID,
		IncomeSourceID: suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID}).ID,
		Match:          "*",
	})

	tests := []struct {
		name           string
		incomeSourceID uuid.UUID
		err            error
	}{
		{
			"Update income source",
			suite.createTestIncomeSource(models.IncomeSource{UserID: user.ID}).ID,
			nil,
		},
		{
			"Update income source to non-existing",
			uuid.New(),
			models.ErrResourceNotFound,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			err := models.DB.Model(&rule).Select("IncomeSourceID").Updates(models.MatchRule{IncomeSourceID: tt.incomeSourceID}).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
