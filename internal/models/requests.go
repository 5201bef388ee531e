package models

// FetchContext carries the acting identity down to the record sources and
// mutation path. ClientID scopes every operation to one tenant.
type FetchContext struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	ClientID string `json:"client_id"`
}

// EditPayload is a save-edit request body. Nil fields are untouched.
type EditPayload struct {
	ClientName   *string `json:"client_name,omitempty"`
	City         *string `json:"city,omitempty"`
	BankName     *string `json:"bank_name,omitempty"`
	MobileNumber *string `json:"mobile_number,omitempty"`
	Address      *string `json:"address,omitempty"`
	Payment      *string `json:"payment,omitempty"`
	CollectedBy  *string `json:"collected_by,omitempty"`
	DSA          *string `json:"dsa,omitempty"`
	EngineerName *string `json:"engineer_name,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// Fields returns the set fields as column name to value, in the storage
// column naming used by all three form-family tables.
func (p *EditPayload) Fields() map[string]string {
	fields := make(map[string]string)
	set := func(name string, value *string) {
		if value != nil {
			fields[name] = *value
		}
	}
	set("client_name", p.ClientName)
	set("city", p.City)
	set("bank_name", p.BankName)
	set("mobile_number", p.MobileNumber)
	set("address", p.Address)
	set("payment", p.Payment)
	set("collected_by", p.CollectedBy)
	set("dsa", p.DSA)
	set("engineer_name", p.EngineerName)
	set("notes", p.Notes)
	return fields
}

// DecisionPayload is an approve/reject request body.
type DecisionPayload struct {
	Status   string  `json:"status"`
	Feedback *string `json:"feedback,omitempty"`
}

// ReworkPayload is a rework request body.
type ReworkPayload struct {
	Comments *string `json:"comments,omitempty"`
}
