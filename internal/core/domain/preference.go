package domain

// UserPreferences is the preference record of one user. ID is the user id;
// ClientID is kept for the derived by-client lookup.
type UserPreferences struct {
	ID                     ID       `json:"id"`
	UserID                 ID       `json:"userId,omitempty"`
	ClientID               ID       `json:"clientId,omitempty"`
	CityPreferences        []string `json:"cityPreferences"`
	WeatherPreferences     []string `json:"weatherPreferences"`
	TemperaturePreferences []string `json:"temperaturePreferences"`
}

// PreferenceLists is the preference payload without identity, as sent by the
// profile editor and embedded in login results.
type PreferenceLists struct {
	CityPreferences        []string `json:"cityPreferences"`
	WeatherPreferences     []string `json:"weatherPreferences"`
	TemperaturePreferences []string `json:"temperaturePreferences"`
}

// EmptyPreferences is the record served when a user has none stored.
func EmptyPreferences(userID ID) *UserPreferences {
	return &UserPreferences{
		ID:                     userID,
		UserID:                 userID,
		CityPreferences:        []string{},
		WeatherPreferences:     []string{},
		TemperaturePreferences: []string{},
	}
}

// Normalize replaces nil lists with empty ones so they encode as [].
func (p *UserPreferences) Normalize() *UserPreferences {
	if p.CityPreferences == nil {
		p.CityPreferences = []string{}
	}
	if p.WeatherPreferences == nil {
		p.WeatherPreferences = []string{}
	}
	if p.TemperaturePreferences == nil {
		p.TemperaturePreferences = []string{}
	}
	return p
}

// Lists returns the identity-free view of the record.
func (p *UserPreferences) Lists() PreferenceLists {
	p.Normalize()
	return PreferenceLists{
		CityPreferences:        p.CityPreferences,
		WeatherPreferences:     p.WeatherPreferences,
		TemperaturePreferences: p.TemperaturePreferences,
	}
}

// Normalize replaces nil lists with empty ones.
func (l *PreferenceLists) Normalize() {
	if l.CityPreferences == nil {
		l.CityPreferences = []string{}
	}
	if l.WeatherPreferences == nil {
		l.WeatherPreferences = []string{}
	}
	if l.TemperaturePreferences == nil {
		l.TemperaturePreferences = []string{}
	}
}
