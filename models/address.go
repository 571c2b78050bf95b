package models

import "time"

// AddressDetails is the part of an address that is copied into an order.
type AddressDetails struct {
	Name        string      `gorm:"size:128;not null" json:"name"`
	Mobile      string      `gorm:"size:32;not null" json:"mobile"`
	Pincode     string      `gorm:"size:16;not null" json:"pincode"`
	Flat        string      `json:"flat"`
	Street      string      `json:"street"`
	City        string      `gorm:"size:128;not null" json:"city"`
	State       string      `gorm:"size:128;not null" json:"state"`
	Landmark    string      `json:"landmark"`
	AddressType AddressType `gorm:"size:16" json:"addressType"`
	COD         bool        `json:"cod"`
}

type Address struct {
	ID     uint `gorm:"primarykey" json:"id"`
	UserID uint `gorm:"index;not null" json:"userId"`
	AddressDetails
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a Address) Snapshot() AddressDetails {
	return a.AddressDetails
}
