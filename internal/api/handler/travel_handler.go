package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/coms4156/tars-client/internal/core/domain"
	"github.com/coms4156/tars-client/internal/tarsapi"
)

// TravelBackend is the part of the backend serving weather, crime and
// country data. Responses are relayed unchanged.
type TravelBackend interface {
	WeatherRecommendation(ctx context.Context, city string, days int) (json.RawMessage, error)
	WeatherAlertsByCity(ctx context.Context, city string) (json.RawMessage, error)
	WeatherAlertsByCoordinates(ctx context.Context, lat, lon float64) (json.RawMessage, error)
	UserWeatherAlerts(ctx context.Context, userID domain.ID) (json.RawMessage, error)
	CrimeSummary(ctx context.Context, q tarsapi.CrimeQuery) (json.RawMessage, error)
	CountryAdvisory(ctx context.Context, country string) (json.RawMessage, error)
	CitySummary(ctx context.Context, q tarsapi.CitySummaryQuery) (json.RawMessage, error)
	CountrySummary(ctx context.Context, country string) (json.RawMessage, error)
}

type TravelHandler struct {
	backend TravelBackend
}

func NewTravelHandler(backend TravelBackend) *TravelHandler {
	return &TravelHandler{backend: backend}
}

func relay(c echo.Context, payload json.RawMessage) error {
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return c.JSONBlob(http.StatusOK, payload)
}

// WeatherRecommendation relays the best days to travel to a city.
//
// @Summary      Weather recommendation
// @Tags         travel
// @Produce      json
// @Param        city  query     string  true  "City"
// @Param        days  query     int     true  "Days ahead"
// @Success      200   {object}  object
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/recommendation/weather [get]
func (h *TravelHandler) WeatherRecommendation(c echo.Context) error {
	const msg = "city and days parameters are required"

	var q weatherRecommendationQuery
	if err := bindAndValidate(c, &q, msg); err != nil {
		return err
	}
	days, err := strconv.Atoi(q.Days)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "days must be a number").SetInternal(err)
	}

	out, err := h.backend.WeatherRecommendation(c.Request().Context(), q.City, days)
	if err != nil {
		return err
	}
	return relay(c, out)
}

// WeatherAlerts relays weather alerts for a city or a coordinate pair.
//
// @Summary      Weather alerts
// @Tags         travel
// @Produce      json
// @Param        city  query     string  false  "City"
// @Param        lat   query     number  false  "Latitude"
// @Param        lon   query     number  false  "Longitude"
// @Success      200   {object}  object
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/alert/weather [get]
func (h *TravelHandler) WeatherAlerts(c echo.Context) error {
	var q weatherAlertQuery
	if err := bindAndValidate(c, &q, "Either city or lat/lon parameters are required"); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if q.City != "" {
		out, err := h.backend.WeatherAlertsByCity(ctx, q.City)
		if err != nil {
			return err
		}
		return relay(c, out)
	}

	lat, errLat := strconv.ParseFloat(q.Lat, 64)
	lon, errLon := strconv.ParseFloat(q.Lon, 64)
	if errLat != nil || errLon != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "lat and lon must be numbers")
	}

	out, err := h.backend.WeatherAlertsByCoordinates(ctx, lat, lon)
	if err != nil {
		return err
	}
	return relay(c, out)
}

// UserWeatherAlerts relays alerts for every city a user follows.
//
// @Summary      Weather alerts for a user
// @Tags         travel
// @Produce      json
// @Param        userId  path      int  true  "User id"
// @Success      200     {object}  object
// @Failure      400     {object}  errorResponse
// @Failure      500     {object}  errorResponse
// @Router       /api/alert/weather/user/{userId} [get]
func (h *TravelHandler) UserWeatherAlerts(c echo.Context) error {
	userID, err := idParam(c, "userId")
	if err != nil {
		return err
	}

	out, err := h.backend.UserWeatherAlerts(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return relay(c, out)
}

// CrimeSummary relays a crime summary for a state, offense and month.
//
// @Summary      Crime summary
// @Tags         travel
// @Produce      json
// @Param        state    query     string  true  "State abbreviation"
// @Param        offense  query     string  true  "Offense code"
// @Param        month    query     string  true  "Month"
// @Param        year     query     string  true  "Year"
// @Success      200      {object}  object
// @Failure      400      {object}  errorResponse
// @Failure      500      {object}  errorResponse
// @Router       /api/crime/summary [get]
func (h *TravelHandler) CrimeSummary(c echo.Context) error {
	const msg = "state, offense, month, and year parameters are required"

	var q crimeSummaryQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msg).SetInternal(err)
	}
	q.trim()
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msg).SetInternal(err)
	}

	out, err := h.backend.CrimeSummary(c.Request().Context(), tarsapi.CrimeQuery{
		State:   q.State,
		Offense: q.Offense,
		Month:   q.Month,
		Year:    q.Year,
	})
	if err != nil {
		return err
	}
	return relay(c, out)
}

// CountryAdvisory wraps the backend's advisory text for a country.
//
// @Summary      Country travel advisory
// @Tags         travel
// @Produce      json
// @Param        country  path      string  true  "Country name"
// @Success      200      {object}  advisoryResponse
// @Failure      500      {object}  errorResponse
// @Router       /api/country/{country} [get]
func (h *TravelHandler) CountryAdvisory(c echo.Context) error {
	out, err := h.backend.CountryAdvisory(c.Request().Context(), textParam(c, "country"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, advisoryResponse{Advisory: out})
}

// CitySummary relays the travel summary of a city.
//
// @Summary      City summary
// @Tags         travel
// @Produce      json
// @Param        city       path      string  true   "City"
// @Param        startDate  query     string  false  "Start date"
// @Param        endDate    query     string  false  "End date"
// @Param        state      query     string  false  "State"
// @Success      200        {object}  object
// @Failure      500        {object}  errorResponse
// @Router       /api/summary/{city} [get]
func (h *TravelHandler) CitySummary(c echo.Context) error {
	var q citySummaryQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query").SetInternal(err)
	}

	out, err := h.backend.CitySummary(c.Request().Context(), tarsapi.CitySummaryQuery{
		City:      textParam(c, "city"),
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		State:     q.State,
	})
	if err != nil {
		return err
	}
	return relay(c, out)
}

// CountrySummary relays the travel summary of a country.
//
// @Summary      Country summary
// @Tags         travel
// @Produce      json
// @Param        country  path      string  true  "Country name"
// @Success      200      {object}  object
// @Failure      500      {object}  errorResponse
// @Router       /api/countrySummary/{country} [get]
func (h *TravelHandler) CountrySummary(c echo.Context) error {
	out, err := h.backend.CountrySummary(c.Request().Context(), textParam(c, "country"))
	if err != nil {
		return err
	}
	return relay(c, out)
}
