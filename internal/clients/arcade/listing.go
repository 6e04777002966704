package arcade

import (
	"encoding/json"
	"fmt"
	"time"
)

// Listing is the wire shape of one Arcade Board job. It never crosses
// the sources package boundary unconverted.
type Listing struct {
	ID              int        `json:"id"`
	Title           string     `json:"title"`
	Studio          string     `json:"studio"`
	Location        string     `json:"location"`
	EmploymentType  string     `json:"employment_type"`
	DescriptionHTML string     `json:"description_html"`
	SalaryRange     string     `json:"salary_range"`
	URL             string     `json:"url"`
	PublishedAt     CustomTime `json:"published_at"`
	Skills          []string   `json:"skills"`
	Tags            []string   `json:"tags"`
	Verified        bool       `json:"verified"`
}

type CustomTime struct {
	time.Time
}

func (dt *CustomTime) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}

	t, err := time.Parse("2006-01-02T15:04:05-0700", str)
	if err != nil {
		return fmt.Errorf("parsing time %s: %v", str, err)
	}
	dt.Time = t
	return nil
}
