package models

import "time"

// DeliveryInfo is an address/contact snapshot captured at checkout. It is not
// foreign-keyed to an order in the write path; OrderID is only populated when
// a caller associates the snapshot explicitly.
type DeliveryInfo struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID      *int64    `gorm:"column:order_id;index"`
	FirstName    string    `gorm:"column:first_name;not null"`
	MiddleName   *string   `gorm:"column:middle_name"`
	LastName     string    `gorm:"column:last_name;not null"`
	Address      string    `gorm:"column:address;not null"`
	City         string    `gorm:"column:city;not null"`
	Province     string    `gorm:"column:province;not null"`
	Landmark     *string   `gorm:"column:landmark"`
	EmailAddress *string   `gorm:"column:email_address"`
	PhoneNumber  string    `gorm:"column:phone_number;not null"`
	Notes        *string   `gorm:"column:notes"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (DeliveryInfo) TableName() string { return "delivery_info" }
