package handler

import (
	"encoding/json"
	"strings"

	"github.com/coms4156/tars-client/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request / Response types ---

type createClientRequest struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required"`
}

type createClientUserRequest struct {
	ClientID domain.ID `json:"clientId" validate:"required"`
	Username string    `json:"username" validate:"required"`
	Email    string    `json:"email"    validate:"required"`
	Role     string    `json:"role"     validate:"required"`
}

type clientIDResponse struct {
	ClientID domain.ID `json:"clientId"`
}

// setPreferenceRequest leaves a list nil when the field is absent so the
// stored value is kept.
type setPreferenceRequest struct {
	CityPreferences        []string `json:"cityPreferences"`
	WeatherPreferences     []string `json:"weatherPreferences"`
	TemperaturePreferences []string `json:"temperaturePreferences"`
}

type loginRequest struct {
	Username string    `json:"username" validate:"required_without_all=Email UserID"`
	Email    string    `json:"email"`
	UserID   domain.ID `json:"userId"`
}

type weatherRecommendationQuery struct {
	City string `query:"city" validate:"required"`
	Days string `query:"days" validate:"required"`
}

type weatherAlertQuery struct {
	City string `query:"city"`
	Lat  string `query:"lat" validate:"required_without=City"`
	Lon  string `query:"lon" validate:"required_without=City"`
}

type crimeSummaryQuery struct {
	State   string `query:"state"   validate:"required"`
	Offense string `query:"offense" validate:"required"`
	Month   string `query:"month"   validate:"required"`
	Year    string `query:"year"    validate:"required"`
}

func (q *crimeSummaryQuery) trim() {
	q.State = strings.TrimSpace(q.State)
	q.Offense = strings.TrimSpace(q.Offense)
	q.Month = strings.TrimSpace(q.Month)
	q.Year = strings.TrimSpace(q.Year)
}

type citySummaryQuery struct {
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	State     string `query:"state"`
}

type advisoryResponse struct {
	Advisory json.RawMessage `json:"advisory" swaggertype:"string"`
}

type deleteUserResponse struct {
	Message     string           `json:"message"`
	DeletedUser *domain.TarsUser `json:"deletedUser"`
}

// profilePreferencesResponse always carries userId, including user 0.
type profilePreferencesResponse struct {
	ID                     domain.ID `json:"id"`
	UserID                 domain.ID `json:"userId"`
	ClientID               domain.ID `json:"clientId,omitempty"`
	CityPreferences        []string  `json:"cityPreferences"`
	WeatherPreferences     []string  `json:"weatherPreferences"`
	TemperaturePreferences []string  `json:"temperaturePreferences"`
}

func newProfilePreferences(userID domain.ID, p *domain.UserPreferences) profilePreferencesResponse {
	if p == nil {
		p = domain.EmptyPreferences(userID)
	}
	p.Normalize()
	return profilePreferencesResponse{
		ID:                     p.ID,
		UserID:                 userID,
		ClientID:               p.ClientID,
		CityPreferences:        p.CityPreferences,
		WeatherPreferences:     p.WeatherPreferences,
		TemperaturePreferences: p.TemperaturePreferences,
	}
}
