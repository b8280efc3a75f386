package physician

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Physician struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	FirstName     string `gorm:"column:first_name;type:varchar(100);not null"`
	LastName      string `gorm:"column:last_name;type:varchar(100);not null"`
	Specialty     string `gorm:"column:specialty;type:varchar(100);not null;index"`
	LicenseNumber string `gorm:"column:license_number;type:varchar(50);uniqueIndex;not null"`

	Phone string `gorm:"column:phone;type:varchar(20)"`
	Email string `gorm:"column:email;type:varchar(255)"`
}

func (Physician) TableName() string {
	return "clinic.physicians"
}

func (p *Physician) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type RegisterPhysicianCommand struct {
	FirstName     string
	LastName      string
	Specialty     string
	LicenseNumber string
	Phone         string
	Email         string
}
