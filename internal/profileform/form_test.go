package profileform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/keebmarket-backend/internal/models"
	"github.com/javajoker/keebmarket-backend/internal/services"
)

type recordingSubmitter struct {
	calls []*services.UpsertProfileRequest
	err   error
}

func (s *recordingSubmitter) UpsertProfile(ctx context.Context, req *services.UpsertProfileRequest) (*models.ProfileView, error) {
	s.calls = append(s.calls, req)
	if s.err != nil {
		return nil, s.err
	}
	return &models.ProfileView{Username: req.Username, Email: req.Email, Phone: req.Phone}, nil
}

func intPtr(v int) *int { return &v }

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"12", "12"},
		{"123", "123"},
		{"1234", "123-4"},
		{"123456", "123-456"},
		{"1234567", "123-456-7"},
		{"(555) 123-4567", "555-123-4567"},
		{"555123456789", "555-123-4567"},
		{"abc", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPhoneNumber(tt.in))
		})
	}
}

func TestSplitPhone(t *testing.T) {
	tests := []struct {
		stored, code, number string
	}{
		{"", "+1", ""},
		{"+1 555-123-4567", "+1", "555-123-4567"},
		{"+44 207-946-0958", "+44", "207-946-0958"},
		{"+852 1234-5678", "+852", "123-456-78"},
		{"+445551234567", "+44", "555-123-4567"},
		{"555-123-4567", "+1", "555-123-4567"},
	}
	for _, tt := range tests {
		t.Run(tt.stored, func(t *testing.T) {
			code, number := SplitPhone(tt.stored)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.number, number)
		})
	}
}

func TestCallingCodes(t *testing.T) {
	codes := CallingCodes()
	require.NotEmpty(t, codes)
	assert.True(t, IsCallingCode("+1"))
	assert.True(t, IsCallingCode("+886"))
	assert.False(t, IsCallingCode("+999"))

	for i := 1; i < len(codes); i++ {
		assert.LessOrEqual(t, codes[i-1].Region, codes[i].Region)
	}
}

func TestPhoneComposition(t *testing.T) {
	f := New()
	assert.Equal(t, "", f.Phone())

	f.SetPhoneNumber("5551234567")
	assert.Equal(t, "+1 555-123-4567", f.Phone())

	require.NoError(t, f.SetCallingCode("+44"))
	assert.Equal(t, "+44 555-123-4567", f.Phone())

	assert.ErrorIs(t, f.SetCallingCode("+999"), ErrUnknownCallingCode)
	assert.Equal(t, "+44", f.CallingCode())
}

func TestPaymentMethods(t *testing.T) {
	f := New()

	added, err := f.AddPaymentMethod("paypal")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = f.AddPaymentMethod("paypal")
	require.NoError(t, err)
	assert.False(t, added)

	_, err = f.AddPaymentMethod("barter")
	assert.ErrorIs(t, err, ErrUnknownPayment)

	_, err = f.AddPaymentMethod("zelle")
	require.NoError(t, err)
	assert.Equal(t, []string{"PayPal", "Zelle"}, f.PaymentMethods())

	available := f.AvailablePaymentMethods()
	assert.Len(t, available, len(models.PaymentMethods)-2)
	for _, m := range available {
		assert.NotEqual(t, "PayPal", m.Name)
		assert.NotEqual(t, "Zelle", m.Name)
	}

	require.NoError(t, f.RemovePaymentMethod(0))
	assert.Equal(t, []string{"Zelle"}, f.PaymentMethods())
	assert.ErrorIs(t, f.RemovePaymentMethod(3), ErrIndexOutOfRange)
}

func TestShippingLocations(t *testing.T) {
	f := New()
	i := f.AddShippingLocation()
	require.NoError(t, f.SetCountry(i, 233))
	require.NoError(t, f.SetState(i, 1400))
	require.NoError(t, f.SetRegion(i, " North America "))
	require.NoError(t, f.SetCost(i, "15.505"))

	loc := f.ShippingLocations()[i]
	assert.Equal(t, "$15.50", loc.Cost)
	assert.Equal(t, "North America", loc.Region)
	require.NotNil(t, loc.CountryID)
	require.NotNil(t, loc.StateID)

	require.NoError(t, f.SetGlobal(i, true))
	loc = f.ShippingLocations()[i]
	assert.True(t, loc.IsGlobal)
	assert.Nil(t, loc.CountryID)
	assert.Nil(t, loc.StateID)
	assert.Nil(t, loc.CityID)

	j := f.AddShippingLocation()
	require.NoError(t, f.RemoveShippingLocation(i))
	assert.Len(t, f.ShippingLocations(), 1)
	assert.ErrorIs(t, f.SetCost(j, "5"), ErrIndexOutOfRange)
}

func TestSetCountryClearsState(t *testing.T) {
	f := New()
	i := f.AddShippingLocation()
	require.NoError(t, f.SetCountry(i, 233))
	require.NoError(t, f.SetState(i, 1400))
	require.NoError(t, f.SetCountry(i, 39))

	loc := f.ShippingLocations()[i]
	assert.Equal(t, 39, *loc.CountryID)
	assert.Nil(t, loc.StateID)
}

func TestValidate(t *testing.T) {
	t.Run("empty form", func(t *testing.T) {
		violations := New().Validate()
		fields := violationFields(violations)
		assert.Contains(t, fields, "username")
		assert.Contains(t, fields, "contact")
	})

	t.Run("single contact error", func(t *testing.T) {
		f := New()
		require.NoError(t, f.SetUsername("switch_fan"))
		violations := f.Validate()
		require.Len(t, violations, 1)
		assert.Equal(t, "contact", violations[0].Field)
		assert.Equal(t, ContactMessage, violations[0].Message)
	})

	t.Run("short phone", func(t *testing.T) {
		f := New()
		require.NoError(t, f.SetUsername("switch_fan"))
		f.SetPhoneNumber("1234")
		fields := violationFields(f.Validate())
		assert.Contains(t, fields, "phone")
		assert.Contains(t, fields, "contact")
	})

	t.Run("phone counts as contact", func(t *testing.T) {
		f := New()
		require.NoError(t, f.SetUsername("switch_fan"))
		f.SetPhoneNumber("12345")
		assert.Empty(t, f.Validate())
	})

	t.Run("invalid username", func(t *testing.T) {
		f := New()
		require.NoError(t, f.SetUsername("no spaces!"))
		f.Discord = "fan#1"
		assert.Equal(t, []string{"username"}, violationFields(f.Validate()))
	})

	t.Run("incomplete shipping", func(t *testing.T) {
		f := New()
		require.NoError(t, f.SetUsername("switch_fan"))
		f.Email = "fan@example.com"
		f.AddShippingLocation()
		g := f.AddShippingLocation()
		require.NoError(t, f.SetGlobal(g, true))
		require.NoError(t, f.SetCost(g, "20"))

		assert.Equal(t, []string{
			"shippingLocations[0].countryId",
			"shippingLocations[0].cost",
		}, violationFields(f.Validate()))
	})
}

func TestFromProfile(t *testing.T) {
	profile := &models.ProfileView{
		Username:       "switch_fan",
		Email:          "fan@example.com",
		Phone:          "+44 207-946-0958",
		PaymentMethods: []string{"PayPal", "PayPal", "Zelle"},
		ShippingLocations: []models.ShippingLocation{
			{CountryID: intPtr(233), Cost: "15"},
			{IsGlobal: true, Cost: "$40.00"},
		},
	}

	f := FromProfile(profile)
	assert.True(t, f.UsernameLocked())
	assert.ErrorIs(t, f.SetUsername("other"), ErrUsernameLocked)
	assert.Equal(t, "switch_fan", f.Username())
	assert.Equal(t, "+44", f.CallingCode())
	assert.Equal(t, "207-946-0958", f.PhoneNumber())
	assert.Equal(t, []string{"PayPal", "Zelle"}, f.PaymentMethods())

	locs := f.ShippingLocations()
	require.Len(t, locs, 2)
	assert.Equal(t, "$15", locs[0].Cost)
	assert.Equal(t, "$40.00", locs[1].Cost)
	assert.Empty(t, f.Validate())

	fresh := FromProfile(&models.ProfileView{Email: "new@example.com"})
	assert.False(t, fresh.UsernameLocked())
	assert.Equal(t, DefaultCallingCode, fresh.CallingCode())
}

func TestSubmit(t *testing.T) {
	t.Run("invalid form never reaches the server", func(t *testing.T) {
		sub := &recordingSubmitter{}
		_, err := New().Submit(context.Background(), sub)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.NotEmpty(t, verr.Violations)
		assert.Empty(t, sub.calls)
	})

	t.Run("valid form sends payload", func(t *testing.T) {
		sub := &recordingSubmitter{}
		f := New()
		require.NoError(t, f.SetUsername("switch_fan"))
		f.Email = " fan@example.com "
		f.SetPhoneNumber("5551234567")
		_, err := f.AddPaymentMethod("venmo")
		require.NoError(t, err)
		i := f.AddShippingLocation()
		require.NoError(t, f.SetCountry(i, 233))
		require.NoError(t, f.SetCost(i, "12"))

		profile, err := f.Submit(context.Background(), sub)
		require.NoError(t, err)
		assert.Equal(t, "switch_fan", profile.Username)

		require.Len(t, sub.calls, 1)
		req := sub.calls[0]
		assert.Equal(t, "fan@example.com", req.Email)
		assert.Equal(t, "+1 555-123-4567", req.Phone)
		assert.Equal(t, []string{"Venmo"}, req.PaymentMethods)
		require.Len(t, req.ShippingLocations, 1)
		assert.Equal(t, "$12", req.ShippingLocations[0].Cost)
	})

	t.Run("server error is returned", func(t *testing.T) {
		sub := &recordingSubmitter{err: errors.New("username taken")}
		f := New()
		require.NoError(t, f.SetUsername("switch_fan"))
		f.Reddit = "u/fan"

		_, err := f.Submit(context.Background(), sub)
		assert.EqualError(t, err, "username taken")
		assert.Len(t, sub.calls, 1)
	})
}

func violationFields(violations []Violation) []string {
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	return fields
}
