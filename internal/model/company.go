package model

import "time"

// Company represents a client company as stored in the `companies`
// table. The NIP (10-digit Polish tax identifier) is the primary
// business key of the whole system: credentials, drums, return
// periods and return requests all hang off it. The json tags are
// used directly by handlers since the struct never carries secrets.
//
// Fields:
//  NIP            – primary key, 10-digit tax identifier.
//  Name           – company display name.
//  Email          – contact email; setup links are sent here.
//  Phone          – contact phone.
//  Address        – postal address, free text.
//  LastActivityAt – bumped by the non-critical bookkeeping touch on login.
//  CreatedAt      – timestamp of provisioning.
type Company struct {
	NIP            string     `json:"nip"`              // companies.nip
	Name           string     `json:"name"`             // companies.name
	Email          string     `json:"email"`            // companies.email
	Phone          string     `json:"phone"`            // companies.phone
	Address        string     `json:"address"`          // companies.address
	LastActivityAt *time.Time `json:"last_activity_at"` // companies.last_activity_at (nullable)
	CreatedAt      time.Time  `json:"created_at"`       // companies.created_at
}

// ReturnPeriod is the optional per-company override of the default
// return window. At most one row exists per NIP; absence means
// DefaultReturnDays applies.
type ReturnPeriod struct {
	NIP       string    `json:"nip"`        // return_periods.nip
	Days      int       `json:"days"`       // return_periods.days
	UpdatedAt time.Time `json:"updated_at"` // return_periods.updated_at
}

// DefaultReturnDays is the return window applied when a company has
// no ReturnPeriod override row.
const DefaultReturnDays = 85
