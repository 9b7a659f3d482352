// Package details provides the order details entity: the recipient and
// billing contact data an order is delivered against. A details record may be
// shared by more than one order, so it is owned by no single order and only
// deleted when its last referencing order goes away.
package details

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrDetailsIsNotConstructed is returned when a Details instance was not
// created through NewDetails or RestoreDetails.
var ErrDetailsIsNotConstructed = errors.New("Details must be created via NewDetails or RestoreDetails")

// Details is the recipient/billing record referenced by orders.
type Details struct {
	id         kernel.UUID
	firstName  string
	lastName   string
	email      string
	phone      string
	country    string
	city       string
	street     string
	streetNo   string
	postcode   string
	orderNotes string

	isConstructed bool
}

// NewDetails creates a validated details record.
func NewDetails(
	id kernel.UUID,
	firstName, lastName, email, phone string,
	country, city, street, streetNo, postcode string,
	orderNotes string,
) (*Details, error) {
	d := &Details{
		orderNotes:    orderNotes,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(firstName, lastName),
		d.setContact(email, phone),
		d.setAddress(country, city, street, streetNo, postcode),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDetails reconstructs a details record from persistence.
func RestoreDetails(
	id kernel.UUID,
	firstName, lastName, email, phone string,
	country, city, street, streetNo, postcode string,
	orderNotes string,
) (*Details, error) {
	return NewDetails(id, firstName, lastName, email, phone, country, city, street, streetNo, postcode, orderNotes)
}

// Validate ensures the record was created through a factory method.
func (d *Details) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDetailsIsNotConstructed
	}
	return nil
}

// ID returns the record identifier.
func (d *Details) ID() kernel.UUID {
	return d.id
}

// FirstName returns the recipient's first name.
func (d *Details) FirstName() string {
	return d.firstName
}

// LastName returns the recipient's last name.
func (d *Details) LastName() string {
	return d.lastName
}

// FullName returns the recipient's display name.
func (d *Details) FullName() string {
	return d.firstName + " " + d.lastName
}

// Email returns the contact email.
func (d *Details) Email() string {
	return d.email
}

// Phone returns the contact phone number.
func (d *Details) Phone() string {
	return d.phone
}

// Country returns the delivery country name.
func (d *Details) Country() string {
	return d.country
}

// City returns the delivery city name.
func (d *Details) City() string {
	return d.city
}

// Street returns the delivery street name.
func (d *Details) Street() string {
	return d.street
}

// StreetNo returns the delivery street number.
func (d *Details) StreetNo() string {
	return d.streetNo
}

// Postcode returns the delivery postcode.
func (d *Details) Postcode() string {
	return d.postcode
}

// OrderNotes returns the free-form notes left by the buyer, possibly empty.
func (d *Details) OrderNotes() string {
	return d.orderNotes
}

func (d *Details) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Details) setName(firstName, lastName string) error {
	if firstName == "" {
		return errs.NewValueIsRequiredError("first name")
	}
	if lastName == "" {
		return errs.NewValueIsRequiredError("last name")
	}
	d.firstName = firstName
	d.lastName = lastName
	return nil
}

func (d *Details) setContact(email, phone string) error {
	if email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	if phone == "" {
		return errs.NewValueIsRequiredError("phone")
	}
	d.email = email
	d.phone = phone
	return nil
}

func (d *Details) setAddress(country, city, street, streetNo, postcode string) error {
	if country == "" {
		return errs.NewValueIsRequiredError("country")
	}
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	d.country = country
	d.city = city
	d.street = street
	d.streetNo = streetNo
	d.postcode = postcode
	return nil
}
