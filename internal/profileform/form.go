// Package profileform collects and validates a seller profile before it is
// submitted. It performs no persistence of its own.
package profileform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/javajoker/keebmarket-backend/internal/models"
	"github.com/javajoker/keebmarket-backend/internal/services"
	"github.com/javajoker/keebmarket-backend/internal/shipping"
	"github.com/javajoker/keebmarket-backend/internal/utils"
)

var (
	ErrUsernameLocked     = errors.New("username is already set")
	ErrUnknownCallingCode = errors.New("unknown calling code")
	ErrUnknownPayment     = errors.New("unknown payment method")
	ErrIndexOutOfRange    = errors.New("index out of range")
)

const ContactMessage = "Please provide at least one contact method (email, phone, Reddit, or Discord)"

// Submitter performs the server write.
type Submitter interface {
	UpsertProfile(ctx context.Context, req *services.UpsertProfileRequest) (*models.ProfileView, error)
}

// Violation is one reason a form cannot be submitted.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned by Submit when the form has violations.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Field+": "+v.Message)
	}
	return "profile form invalid: " + strings.Join(msgs, "; ")
}

type Form struct {
	username       string
	usernameLocked bool

	Email   string
	Reddit  string
	Discord string

	callingCode string
	phoneNumber string

	paymentMethods []string
	shipping       []models.ShippingLocation
}

func New() *Form {
	return &Form{
		callingCode:    DefaultCallingCode,
		paymentMethods: []string{},
		shipping:       []models.ShippingLocation{},
	}
}

// FromProfile hydrates a form from a stored profile. The username is locked
// when the profile already has one.
func FromProfile(p *models.ProfileView) *Form {
	f := New()
	if p == nil {
		return f
	}

	f.username = p.Username
	f.usernameLocked = p.Username != ""
	f.Email = p.Email
	f.Reddit = p.Reddit
	f.Discord = p.Discord
	f.callingCode, f.phoneNumber = SplitPhone(p.Phone)

	for _, name := range p.PaymentMethods {
		f.addPaymentName(name)
	}
	for _, loc := range p.ShippingLocations {
		loc.Cost = shipping.FormatUSD(loc.Cost)
		f.shipping = append(f.shipping, loc)
	}
	return f
}

func (f *Form) Username() string     { return f.username }
func (f *Form) UsernameLocked() bool { return f.usernameLocked }

func (f *Form) SetUsername(username string) error {
	if f.usernameLocked {
		return ErrUsernameLocked
	}
	f.username = strings.TrimSpace(username)
	return nil
}

func (f *Form) CallingCode() string { return f.callingCode }
func (f *Form) PhoneNumber() string { return f.phoneNumber }

func (f *Form) SetCallingCode(code string) error {
	if !IsCallingCode(code) {
		return fmt.Errorf("%w: %s", ErrUnknownCallingCode, code)
	}
	f.callingCode = code
	return nil
}

// SetPhoneNumber reformats input into 3-3-4 groups.
func (f *Form) SetPhoneNumber(input string) {
	f.phoneNumber = FormatPhoneNumber(input)
}

// Phone is the value submitted for the phone field.
func (f *Form) Phone() string {
	return ComposePhone(f.callingCode, f.phoneNumber)
}

func (f *Form) PaymentMethods() []string {
	return append([]string(nil), f.paymentMethods...)
}

// AddPaymentMethod adds the catalog entry with id. It returns false when the
// method is already present.
func (f *Form) AddPaymentMethod(id string) (bool, error) {
	method, ok := models.LookupPaymentMethod(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownPayment, id)
	}
	return f.addPaymentName(method.Name), nil
}

func (f *Form) addPaymentName(name string) bool {
	for _, existing := range f.paymentMethods {
		if existing == name {
			return false
		}
	}
	f.paymentMethods = append(f.paymentMethods, name)
	return true
}

func (f *Form) RemovePaymentMethod(index int) error {
	if index < 0 || index >= len(f.paymentMethods) {
		return ErrIndexOutOfRange
	}
	f.paymentMethods = append(f.paymentMethods[:index:index], f.paymentMethods[index+1:]...)
	return nil
}

// AvailablePaymentMethods lists catalog entries not yet selected.
func (f *Form) AvailablePaymentMethods() []models.PaymentMethod {
	selected := make(map[string]bool, len(f.paymentMethods))
	for _, name := range f.paymentMethods {
		selected[name] = true
	}
	available := make([]models.PaymentMethod, 0, len(models.PaymentMethods))
	for _, m := range models.PaymentMethods {
		if !selected[m.Name] {
			available = append(available, m)
		}
	}
	return available
}

func (f *Form) ShippingLocations() []models.ShippingLocation {
	return append([]models.ShippingLocation(nil), f.shipping...)
}

// AddShippingLocation appends an empty regional entry and returns its index.
func (f *Form) AddShippingLocation() int {
	f.shipping = append(f.shipping, models.ShippingLocation{})
	return len(f.shipping) - 1
}

func (f *Form) RemoveShippingLocation(index int) error {
	if err := f.checkShippingIndex(index); err != nil {
		return err
	}
	f.shipping = append(f.shipping[:index:index], f.shipping[index+1:]...)
	return nil
}

// SetGlobal toggles worldwide shipping. Turning it on clears the geography.
func (f *Form) SetGlobal(index int, global bool) error {
	if err := f.checkShippingIndex(index); err != nil {
		return err
	}
	loc := &f.shipping[index]
	loc.IsGlobal = global
	if global {
		loc.CountryID, loc.StateID, loc.CityID = nil, nil, nil
	}
	return nil
}

func (f *Form) SetCountry(index, countryID int) error {
	if err := f.checkShippingIndex(index); err != nil {
		return err
	}
	f.shipping[index].CountryID = &countryID
	f.shipping[index].StateID = nil
	f.shipping[index].CityID = nil
	return nil
}

func (f *Form) SetState(index, stateID int) error {
	if err := f.checkShippingIndex(index); err != nil {
		return err
	}
	f.shipping[index].StateID = &stateID
	return nil
}

func (f *Form) SetRegion(index int, region string) error {
	if err := f.checkShippingIndex(index); err != nil {
		return err
	}
	f.shipping[index].Region = strings.TrimSpace(region)
	return nil
}

// SetCost stores input formatted as a USD display string.
func (f *Form) SetCost(index int, input string) error {
	if err := f.checkShippingIndex(index); err != nil {
		return err
	}
	f.shipping[index].Cost = shipping.FormatUSD(input)
	return nil
}

func (f *Form) checkShippingIndex(index int) error {
	if index < 0 || index >= len(f.shipping) {
		return ErrIndexOutOfRange
	}
	return nil
}

// Validate lists every rule the form currently breaks. It has no side effects.
func (f *Form) Validate() []Violation {
	var violations []Violation

	if !f.usernameLocked {
		if f.username == "" {
			violations = append(violations, Violation{Field: "username", Message: "Username is required"})
		} else if err := utils.ValidateStruct(struct {
			Username string `validate:"username"`
		}{f.username}); err != nil {
			message := "Username is invalid"
			if errs := utils.GetValidationErrors(err); len(errs) > 0 {
				message = errs[0].Message
			}
			violations = append(violations, Violation{Field: "username", Message: message})
		}
	}

	if f.phoneNumber != "" && models.PhoneDigits(f.phoneNumber) < models.MinPhoneDigits {
		violations = append(violations, Violation{
			Field:   "phone",
			Message: fmt.Sprintf("Please enter a valid phone number (at least %d digits)", models.MinPhoneDigits),
		})
	}

	if !models.HasContactMethod(f.Email, f.Phone(), f.Reddit, f.Discord) {
		violations = append(violations, Violation{Field: "contact", Message: ContactMessage})
	}

	for i, loc := range f.shipping {
		if !loc.IsGlobal && loc.CountryID == nil {
			violations = append(violations, Violation{
				Field:   fmt.Sprintf("shippingLocations[%d].countryId", i),
				Message: "Select a country or mark the location as global",
			})
		}
		if _, err := shipping.ParseUSD(loc.Cost); err != nil {
			violations = append(violations, Violation{
				Field:   fmt.Sprintf("shippingLocations[%d].cost", i),
				Message: "Enter a shipping cost",
			})
		}
	}

	return violations
}

// Payload assembles the request sent to the server.
func (f *Form) Payload() *services.UpsertProfileRequest {
	return &services.UpsertProfileRequest{
		Username:          f.username,
		Email:             strings.TrimSpace(f.Email),
		Phone:             f.Phone(),
		Reddit:            strings.TrimSpace(f.Reddit),
		Discord:           strings.TrimSpace(f.Discord),
		PaymentMethods:    f.PaymentMethods(),
		ShippingLocations: f.ShippingLocations(),
	}
}

// Submit validates the form and, only when it is valid, hands the payload to
// submitter. A locked username is sent as-is so the server keeps it.
func (f *Form) Submit(ctx context.Context, submitter Submitter) (*models.ProfileView, error) {
	if violations := f.Validate(); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return submitter.UpsertProfile(ctx, f.Payload())
}
