// Package hubrepo reads the intermediate locations used to split shipments.
package hubrepo

import (
	"time"

	"freight/internal/adapters/out/postgres/embedded"
	"freight/internal/core/domain/model/hub"
)

type AirbaseDTO struct {
	Code        string           `gorm:"primaryKey;type:varchar(16)"`
	CarrierCode int              `gorm:"primaryKey;autoIncrement:false"`
	Address     embedded.Address `gorm:"embedded;embeddedPrefix:address_"`
	// Position orders airbases of one carrier; earlier airbases win ties.
	Position int `gorm:"not null;default:0"`
}

func (AirbaseDTO) TableName() string {
	return "airbases"
}

type SailingDTO struct {
	CarrierCode     int              `gorm:"primaryKey;autoIncrement:false"`
	Name            string           `gorm:"primaryKey;type:varchar(128)"`
	Port            embedded.Address `gorm:"embedded;embeddedPrefix:port_"`
	DestinationPort embedded.Address `gorm:"embedded;embeddedPrefix:destination_port_"`
	Departure       time.Time        `gorm:"type:date"`
}

func (SailingDTO) TableName() string {
	return "sailings"
}

type PackingStationDTO struct {
	CarrierCode int              `gorm:"primaryKey;autoIncrement:false"`
	Address     embedded.Address `gorm:"embedded;embeddedPrefix:address_"`
}

func (PackingStationDTO) TableName() string {
	return "packing_stations"
}

// MiddleLocationDTO is the cross-dock for an ordered pair of interline carriers.
type MiddleLocationDTO struct {
	FirstCarrier  int              `gorm:"primaryKey;autoIncrement:false"`
	SecondCarrier int              `gorm:"primaryKey;autoIncrement:false"`
	Address       embedded.Address `gorm:"embedded;embeddedPrefix:address_"`
}

func (MiddleLocationDTO) TableName() string {
	return "middle_locations"
}

func (dto AirbaseDTO) toDomain() hub.Airbase {
	return hub.Airbase{Code: dto.Code, Carrier: dto.CarrierCode, Address: dto.Address.ToDomain()}
}

func (dto SailingDTO) toDomain() hub.Sailing {
	return hub.Sailing{
		Carrier:         dto.CarrierCode,
		Name:            dto.Name,
		Port:            dto.Port.ToDomain(),
		DestinationPort: dto.DestinationPort.ToDomain(),
		Departure:       dto.Departure,
	}
}
