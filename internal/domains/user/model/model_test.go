package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"skybook/internal/domains/user/model"
	gDto "skybook/shared/dto"
)

func TestUser_Airline(t *testing.T) {
	airline := "airline-1"

	assert.Equal(t, "airline-1", model.User{AirlineID: &airline}.Airline())
	assert.Empty(t, model.User{}.Airline())
}

func TestByEmail(t *testing.T) {
	filter := model.ByEmail("Ops@Sky.TEST")

	assert.Len(t, filter.Filters, 1)

	emailFilter, ok := filter.Filters[0].(gDto.Filter)
	assert.True(t, ok)
	assert.Equal(t, model.FieldEmail, emailFilter.Field)
	assert.Equal(t, gDto.FilterOperatorEq, emailFilter.Operator)
	assert.Equal(t, "ops@sky.test", emailFilter.Value)
}
