package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/csheth/paperlens/internal/bridge"
)

// Search limits enforced before any remote call.
const (
	MinMaxResults = 10
	MaxMaxResults = 1000
	MinFromYear   = 1900
	MaxFromYear   = 2030
)

// Form field names, used to move focus to the offending input.
const (
	FieldQuery      = "query"
	FieldMaxResults = "max_results"
	FieldFromYear   = "from_year"
)

// ValidationError is a field-scoped input problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// SearchForm holds the raw text of the search inputs.
type SearchForm struct {
	Query      string
	Source     string
	SearchType string
	MaxResults string
	FromYear   string
}

// Validate turns the form into a request or reports the first bad field.
func (f SearchForm) Validate() (bridge.SearchRequest, error) {
	query := strings.TrimSpace(f.Query)
	if query == "" {
		return bridge.SearchRequest{}, &ValidationError{Field: FieldQuery, Message: "Please enter search keywords"}
	}

	maxResults, err := strconv.Atoi(strings.TrimSpace(f.MaxResults))
	if err != nil || maxResults < MinMaxResults || maxResults > MaxMaxResults {
		return bridge.SearchRequest{}, &ValidationError{
			Field:   FieldMaxResults,
			Message: fmt.Sprintf("Max results must be between %d and %d", MinMaxResults, MaxMaxResults),
		}
	}

	req := bridge.SearchRequest{
		Query:      query,
		Source:     orDefault(f.Source, "all"),
		SearchType: orDefault(f.SearchType, "all"),
		MaxResults: maxResults,
	}

	if raw := strings.TrimSpace(f.FromYear); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < MinFromYear || year > MaxFromYear {
			return bridge.SearchRequest{}, &ValidationError{
				Field:   FieldFromYear,
				Message: fmt.Sprintf("From year must be between %d and %d", MinFromYear, MaxFromYear),
			}
		}
		req.FromYear = &year
	}
	return req, nil
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}
