package domain

import "time"

type CustomerRole string

const (
	CustomerRoleCustomer CustomerRole = "CUSTOMER"
	CustomerRoleStaff    CustomerRole = "STAFF"
)

type Customer struct {
	ID            int32        `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	Phone         string       `json:"phone"`
	PasswordHash  string       `json:"-"`
	Role          CustomerRole `json:"role"`
	Verified      bool         `json:"verified"`
	Blocked       bool         `json:"blocked"`
	BlockedReason string       `json:"blocked_reason,omitempty"`
	CreatedOn     time.Time    `json:"created_on"`
	UpdatedOn     time.Time    `json:"updated_on"`
}
