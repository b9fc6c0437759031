// Package embedded holds column groups shared by several tables.
package embedded

import (
	"freight/internal/core/domain/model/kernel"
)

// Address is embedded with a prefix, e.g. `gorm:"embedded;embeddedPrefix:origin_"`.
type Address struct {
	Company        string `gorm:"type:varchar(255)"`
	Contact        string `gorm:"type:varchar(255)"`
	Phone          string `gorm:"type:varchar(64)"`
	Email          string `gorm:"type:varchar(255)"`
	Street         string `gorm:"type:varchar(255)"`
	City           string `gorm:"type:varchar(128)"`
	Province       string `gorm:"type:varchar(16)"`
	Country        string `gorm:"type:varchar(8)"`
	PostalCode     string `gorm:"type:varchar(16)"`
	HasLoadingDock bool
	IsResidential  bool
}

func FromAddress(a kernel.Address) Address {
	return Address{
		Company:        a.Company,
		Contact:        a.Contact,
		Phone:          a.Phone,
		Email:          a.Email,
		Street:         a.Street,
		City:           a.City,
		Province:       a.Province,
		Country:        a.Country,
		PostalCode:     a.PostalCode,
		HasLoadingDock: a.HasLoadingDock,
		IsResidential:  a.IsResidential,
	}
}

func (a Address) ToDomain() kernel.Address {
	return kernel.Address{
		Company:        a.Company,
		Contact:        a.Contact,
		Phone:          a.Phone,
		Email:          a.Email,
		Street:         a.Street,
		City:           a.City,
		Province:       a.Province,
		Country:        a.Country,
		PostalCode:     a.PostalCode,
		HasLoadingDock: a.HasLoadingDock,
		IsResidential:  a.IsResidential,
	}
}
