package models

// ContractRecord is one entry of the generation history, as returned by the
// history function. CreatedAt is an ISO-8601 timestamp.
type ContractRecord struct {
	ContractNumber string `json:"contractNumber"`
	Nickname       string `json:"nickname"`
	FullName       string `json:"fullName"`
	ShortName      string `json:"shortName"`
	ContractDate   string `json:"contractDate"`
	Citizenship    string `json:"citizenship"`
	Email          string `json:"email"`
	Passport       string `json:"passport"`
	CreatedAt      string `json:"createdAt"`
}
