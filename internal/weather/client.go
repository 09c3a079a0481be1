package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"GardaBoatsSaas/internal/config"
	"GardaBoatsSaas/internal/dataset"
)

// DayWeather is one daily record from the historical archive.
type DayWeather struct {
	Date          time.Time
	Precipitation *float64
	WindMax       *float64
}

// Adverse reports whether the day crosses the rain or wind threshold.
func (d DayWeather) Adverse() bool {
	if d.Precipitation != nil && *d.Precipitation > config.RainThresholdMM {
		return true
	}
	if d.WindMax != nil && *d.WindMax > config.WindThresholdKMH {
		return true
	}
	return false
}

// Client fetches daily precipitation and wind history from the open-meteo
// archive. The archive rejects multi-year ranges, so FetchRange issues one
// request per covered calendar year.
type Client struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
	HTTP      *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL:   config.DefaultWeatherURL,
		Latitude:  config.FleetLatitude,
		Longitude: config.FleetLongitude,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
	}
}

type archiveResponse struct {
	Daily struct {
		Time             []string   `json:"time"`
		PrecipitationSum []*float64 `json:"precipitation_sum"`
		WeatherCode      []*int     `json:"weathercode"`
		WindSpeedMax     []*float64 `json:"windspeed_10m_max"`
	} `json:"daily"`
}

func (c *Client) fetchYear(ctx context.Context, start, end time.Time) ([]DayWeather, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%g", c.Latitude))
	q.Set("longitude", fmt.Sprintf("%g", c.Longitude))
	q.Set("start_date", start.Format("2006-01-02"))
	q.Set("end_date", end.Format("2006-01-02"))
	q.Set("daily", "precipitation_sum,weathercode,windspeed_10m_max")
	q.Set("timezone", config.WeatherTimeZone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("archive returned status %d", resp.StatusCode)
	}

	var parsed archiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Daily.Time) == 0 {
		return nil, fmt.Errorf("archive returned no daily data")
	}

	out := make([]DayWeather, 0, len(parsed.Daily.Time))
	for i, ts := range parsed.Daily.Time {
		day, err := time.Parse("2006-01-02", ts)
		if err != nil {
			continue
		}
		d := DayWeather{Date: day}
		if i < len(parsed.Daily.PrecipitationSum) {
			d.Precipitation = parsed.Daily.PrecipitationSum[i]
		}
		if i < len(parsed.Daily.WindSpeedMax) {
			d.WindMax = parsed.Daily.WindSpeedMax[i]
		}
		out = append(out, d)
	}
	return out, nil
}

// FetchRange fetches daily weather for [start, end], one request per year.
// A failed year is reported as a warning and skipped; the other years are
// unaffected. The map is keyed by midnight-normalized date.
func (c *Client) FetchRange(ctx context.Context, start, end time.Time) (map[time.Time]DayWeather, []string) {
	days := map[time.Time]DayWeather{}
	var warnings []string
	for year := start.Year(); year <= end.Year(); year++ {
		from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
		if from.Before(start) {
			from = Normalize(start)
		}
		if to.After(end) {
			to = Normalize(end)
		}
		fetched, err := c.fetchYear(ctx, from, to)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Errore caricamento meteo per il %d: %v", year, err))
			continue
		}
		for _, d := range fetched {
			days[Normalize(d.Date)] = d
		}
	}
	return days, warnings
}

// Normalize strips the time of day, the join key between trips and weather.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Enrich left-joins the daily weather onto the trip rows by calendar date.
// Rows with no weather record keep a nil flag.
func Enrich(rows []dataset.TripRecord, days map[time.Time]DayWeather) []dataset.TripRecord {
	out := make([]dataset.TripRecord, len(rows))
	copy(out, rows)
	for i := range out {
		d, ok := days[Normalize(out[i].Date)]
		if !ok {
			continue
		}
		adverse := d.Adverse()
		out[i].BadWeather = &adverse
		out[i].Precipitation = d.Precipitation
		out[i].WindMax = d.WindMax
	}
	return out
}
