package arcade

import (
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

var ErrTooDeepPagination = errors.New("too deep pagination")

type SearchParameters struct {
	Query    string
	Location string
	Remote   bool
	Page     int
	PerPage  int
}

func (s SearchParameters) Validate() error {

	if s.Query == "" {
		return errors.New("query must not be empty")
	}

	if s.Page < 0 {
		return errors.New("page must be non-negative")
	}

	if s.PerPage < 0 || s.PerPage > 100 {
		return errors.New("per page must be between 0 and 100")
	}

	if s.PerPage > 0 {
		maxResults := 1000
		maxPage := maxResults / s.PerPage
		if s.Page >= maxPage {
			return ErrTooDeepPagination
		}
	}

	return nil
}

func (s SearchParameters) ToUrlParams() url.Values {

	params := url.Values{}
	params.Add("q", s.Query)

	if s.Location != "" {
		params.Add("location", s.Location)
	}

	if s.Remote {
		params.Add("remote", "true")
	}

	params.Add("page", strconv.Itoa(s.Page))

	if s.PerPage > 0 {
		params.Add("per_page", strconv.Itoa(s.PerPage))
	}

	return params
}
