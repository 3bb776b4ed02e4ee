package models

type Customer struct {
	ID             int64       `json:"id" db:"id"`
	Name           string      `json:"name" db:"name"`
	Phone          string      `json:"phone" db:"phone"`
	Email          string      `json:"email" db:"email"`
	Birthday       Date        `json:"birthday" db:"birthday"`
	Vehicles       []Vehicle   `json:"vehicles"`
	ServiceHistory []WorkOrder `json:"serviceHistory"`
}

type Vehicle struct {
	ID           int64   `json:"id" db:"id"`
	CustomerID   int64   `json:"customerId" db:"customer_id"`
	Plate        string  `json:"plate" db:"plate"`
	Model        string  `json:"model" db:"model"`
	Color        string  `json:"color" db:"color"`
	Observations *string `json:"observations,omitempty" db:"observations"`
}
