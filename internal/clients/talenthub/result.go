package talenthub

// Result is the wire shape of one TalentHub search hit.
type Result struct {
	UUID         string   `json:"uuid"`
	Position     string   `json:"position"`
	Employer     Employer `json:"employer"`
	City         string   `json:"city"`
	Country      string   `json:"country"`
	Type         string   `json:"type"`
	Description  string   `json:"description"`
	SalaryMin    int      `json:"salary_min"`
	SalaryMax    int      `json:"salary_max"`
	Link         string   `json:"link"`
	Posted       string   `json:"posted"`
	Requirements []string `json:"requirements"`
}

type Employer struct {
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}
