package ingest

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/blck04/irrigation-model/internal/httputil"
	"github.com/blck04/irrigation-model/internal/metrics"
	"github.com/blck04/irrigation-model/internal/models"
)

const (
	powerBaseURL = "https://power.larc.nasa.gov/api/temporal/daily/point"

	// powerFillValue marks missing data in POWER responses.
	powerFillValue = -999.0
)

// PowerClient fetches daily agroclimate records from the NASA POWER API.
type PowerClient struct {
	baseURL string
	client  *http.Client
}

func NewPowerClient() *PowerClient {
	return &PowerClient{
		baseURL: powerBaseURL,
		client:  httputil.NewClient(),
	}
}

// NewPowerClientWithBase is used by tests to point at a local server.
func NewPowerClientWithBase(baseURL string) *PowerClient {
	c := NewPowerClient()
	c.baseURL = baseURL
	return c
}

type powerResponse struct {
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
}

// FetchDaily returns one record per day in [from, to] for a point, sorted by
// date. Transient HTTP failures are retried with exponential backoff; fill
// values become invalid fields so the season window reports them as missing.
func (p *PowerClient) FetchDaily(lat, lon float64, from, to time.Time) ([]models.DailyRecord, error) {
	url := fmt.Sprintf(
		"%s?parameters=T2M_MAX,T2M_MIN,PRECTOTCORR,ALLSKY_SFC_SW_DWN&community=AG&latitude=%f&longitude=%f&start=%s&end=%s&format=JSON",
		p.baseURL, lat, lon, from.Format("20060102"), to.Format("20060102"))

	var body []byte
	operation := func() error {
		start := time.Now()
		resp, err := p.client.Get(url)
		metrics.PowerAPILatency.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.PowerAPICallsTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("fetch power: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			metrics.PowerAPICallsTotal.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Inc()
			return fmt.Errorf("power status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			metrics.PowerAPICallsTotal.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Inc()
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(fmt.Errorf("power status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read power body: %w", err))
		}
		metrics.PowerAPICallsTotal.WithLabelValues("200").Inc()
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}

	var data powerResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal power response: %w", err)
	}

	params := data.Properties.Parameter
	if len(params) == 0 {
		return nil, fmt.Errorf("power response has no parameters")
	}

	byDate := make(map[string]*models.DailyRecord)
	assign := func(param string, set func(r *models.DailyRecord, v sql.NullFloat64)) {
		for day, v := range params[param] {
			r, ok := byDate[day]
			if !ok {
				date, err := time.Parse("20060102", day)
				if err != nil {
					continue
				}
				r = &models.DailyRecord{Date: date}
				byDate[day] = r
			}
			if v == powerFillValue {
				set(r, sql.NullFloat64{})
			} else {
				set(r, sql.NullFloat64{Float64: v, Valid: true})
			}
		}
	}
	assign("T2M_MAX", func(r *models.DailyRecord, v sql.NullFloat64) { r.TempMax = v })
	assign("T2M_MIN", func(r *models.DailyRecord, v sql.NullFloat64) { r.TempMin = v })
	assign("PRECTOTCORR", func(r *models.DailyRecord, v sql.NullFloat64) { r.Precip = v })
	assign("ALLSKY_SFC_SW_DWN", func(r *models.DailyRecord, v sql.NullFloat64) { r.SolarRadiation = v })

	records := make([]models.DailyRecord, 0, len(byDate))
	for _, r := range byDate {
		records = append(records, *r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })

	return records, nil
}
