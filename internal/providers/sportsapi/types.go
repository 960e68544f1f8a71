package sportsapi

// ProviderName identifies this gateway in logs and metrics.
const ProviderName = "sportsapi"

type sportsResponse struct {
	Data []sportResponse `json:"data"`
}

type sportResponse struct {
	Key   string         `json:"key"`
	Name  string         `json:"name"`
	Teams []teamResponse `json:"teams"`
}

type teamResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type scheduleResponse struct {
	Data []fixtureResponse `json:"data"`
}

type fixtureResponse struct {
	ID        int           `json:"id"`
	Sport     string        `json:"sport"`
	HomeTeam  teamResponse  `json:"home_team"`
	AwayTeam  teamResponse  `json:"away_team"`
	Venue     venueResponse `json:"venue"`
	StartTime string        `json:"start_time"`
	Status    string        `json:"status"`
}

type venueResponse struct {
	Name string `json:"name"`
	City string `json:"city"`
}

type eventsResponse struct {
	Data []eventResponse `json:"data"`
}

type eventResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Sport     string `json:"sport"`
	Location  string `json:"location"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}
