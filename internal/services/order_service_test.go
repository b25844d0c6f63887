package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderNumberFormat(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		num := NewOrderNumber(now)
		assert.Regexp(t, fmt.Sprintf(`^ORD-%d-[0-9]{5}$`, now.Year()), num)
	}
}

func TestShippingInfoValidate(t *testing.T) {
	good := model.ShippingInfo{
		Address: "1 Main St",
		City:    "Springfield",
		Country: "US",
		ZipCode: "12345",
		Phone:   "08123456789",
	}
	require.NoError(t, good.Validate())

	bad := good
	bad.Address = ""
	var verr *model.ValidationError
	require.ErrorAs(t, bad.Validate(), &verr)

	bad = good
	bad.Phone = ""
	bad.ZipCode = ""
	require.ErrorAs(t, bad.Validate(), &verr)
	assert.Len(t, verr.Fields, 2)
}
