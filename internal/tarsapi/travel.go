package tarsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/coms4156/tars-client/internal/core/domain"
)

// CrimeQuery selects one crime summary.
type CrimeQuery struct {
	State   string
	Offense string
	Month   string
	Year    string
}

// CitySummaryQuery selects a city's travel summary. Empty optional fields
// are not sent.
type CitySummaryQuery struct {
	City      string
	StartDate string
	EndDate   string
	State     string
}

func (c *Client) WeatherRecommendation(ctx context.Context, city string, days int) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, request{
		op:     "get weather recommendation",
		method: http.MethodGet,
		path:   "/recommendation/weather/",
		query:  url.Values{"city": {city}, "days": {strconv.Itoa(days)}},
	}, &out)
	return out, err
}

func (c *Client) WeatherAlertsByCity(ctx context.Context, city string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, request{
		op:     "get weather alerts",
		method: http.MethodGet,
		path:   "/alert/weather",
		query:  url.Values{"city": {city}},
	}, &out)
	return out, err
}

func (c *Client) WeatherAlertsByCoordinates(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, request{
		op:     "get weather alerts",
		method: http.MethodGet,
		path:   "/alert/weather",
		query: url.Values{
			"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
			"lon": {strconv.FormatFloat(lon, 'f', -1, 64)},
		},
	}, &out)
	return out, err
}

func (c *Client) UserWeatherAlerts(ctx context.Context, userID domain.ID) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, request{
		op:     "get user weather alerts",
		method: http.MethodGet,
		path:   "/alert/weather/user/" + segment(userID),
	}, &out)
	return out, err
}

func (c *Client) CrimeSummary(ctx context.Context, q CrimeQuery) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, request{
		op:     "get crime summary",
		method: http.MethodGet,
		path:   "/crime/summary",
		query: url.Values{
			"state":   {q.State},
			"offense": {q.Offense},
			"month":   {q.Month},
			"year":    {q.Year},
		},
	}, &out)
	return out, err
}

// CountryAdvisory returns the travel advisory for country. Plain-text
// answers are returned as a JSON string.
func (c *Client) CountryAdvisory(ctx context.Context, country string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, request{
		op:     "get country advisory",
		method: http.MethodGet,
		path:   "/country/" + segment(country),
	}, &out)
	return out, err
}

func (c *Client) CitySummary(ctx context.Context, q CitySummaryQuery) (json.RawMessage, error) {
	query := url.Values{}
	if q.StartDate != "" {
		query.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		query.Set("endDate", q.EndDate)
	}
	if q.State != "" {
		query.Set("state", q.State)
	}

	var out json.RawMessage
	err := c.do(ctx, request{
		op:     "get city summary",
		method: http.MethodGet,
		path:   "/summary/" + segment(q.City),
		query:  query,
	}, &out)
	return out, err
}

func (c *Client) CountrySummary(ctx context.Context, country string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, request{
		op:     "get country summary",
		method: http.MethodGet,
		path:   "/countrySummary/" + segment(country),
	}, &out)
	return out, err
}
