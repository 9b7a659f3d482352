package detailsrepo

import (
	"fulfillment/internal/core/domain/model/details"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DetailsDTO represents the database structure for recipient details
// records. A record may be referenced by several orders; deletion checks
// the reference count first.
type DetailsDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName  string    `gorm:"size:128"`
	LastName   string    `gorm:"size:128"`
	Email      string    `gorm:"size:255"`
	Phone      string    `gorm:"size:64"`
	Country    string    `gorm:"size:128"`
	City       string    `gorm:"size:128"`
	Street     string    `gorm:"size:255"`
	StreetNo   string    `gorm:"size:32"`
	Postcode   string    `gorm:"size:32"`
	OrderNotes string
}

// TableName specifies the database table name for details records.
func (DetailsDTO) TableName() string {
	return "order_details"
}

func fromDomain(record *details.Details) DetailsDTO {
	return DetailsDTO{
		ID:         record.ID().Bytes(),
		FirstName:  record.FirstName(),
		LastName:   record.LastName(),
		Email:      record.Email(),
		Phone:      record.Phone(),
		Country:    record.Country(),
		City:       record.City(),
		Street:     record.Street(),
		StreetNo:   record.StreetNo(),
		Postcode:   record.Postcode(),
		OrderNotes: record.OrderNotes(),
	}
}

func toDomain(dto DetailsDTO) (*details.Details, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return details.RestoreDetails(
		id,
		dto.FirstName,
		dto.LastName,
		dto.Email,
		dto.Phone,
		dto.Country,
		dto.City,
		dto.Street,
		dto.StreetNo,
		dto.Postcode,
		dto.OrderNotes,
	)
}
