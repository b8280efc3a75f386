package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ContactInfo struct {
	Phone   string `gorm:"column:phone;type:varchar(20)"`
	Email   string `gorm:"column:email;type:varchar(255)"`
	Address string `gorm:"column:address;type:text"`
}

type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	FirstName   string    `gorm:"column:first_name;type:varchar(100);not null"`
	LastName    string    `gorm:"column:last_name;type:varchar(100);not null"`
	NationalID  string    `gorm:"column:national_id;type:varchar(50);uniqueIndex;not null"`
	DateOfBirth time.Time `gorm:"column:date_of_birth;not null"`

	ContactInfo
}

func (Patient) TableName() string {
	return "clinic.patients"
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p *Patient) Age() int {
	now := time.Now()
	years := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		years--
	}
	return years
}

type RegisterPatientCommand struct {
	FirstName   string
	LastName    string
	NationalID  string
	DateOfBirth time.Time
	Phone       string
	Email       string
	Address     string
}

// UpdateContactCommand carries the only fields that stay mutable after
// registration. Identity fields (name, national ID, birth date) do not change.
type UpdateContactCommand struct {
	Phone   *string
	Email   *string
	Address *string
}
