package remotely

// Position is the wire shape of one Remotely listing.
type Position struct {
	Slug         string       `json:"slug"`
	Role         string       `json:"role"`
	CompanyName  string       `json:"company_name"`
	Region       string       `json:"region"`
	ContractType string       `json:"contract_type"`
	Summary      string       `json:"summary"`
	Compensation Compensation `json:"compensation"`
	ApplyURL     string       `json:"apply_url"`
	PostedOn     string       `json:"posted_on"`
	Stack        []string     `json:"stack"`
}

type Compensation struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}
