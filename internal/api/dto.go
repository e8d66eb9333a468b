package api

import (
	"time"

	"github.com/banshee-data/dga.report/internal/dga"
)

type trendResponse struct {
	UnitID     string            `json:"unit_id"`
	Gas        string            `json:"gas_name"`
	Direction  dga.Direction     `json:"trend_direction"`
	Confidence *float64          `json:"confidence"`
	Statistic  *float64          `json:"statistic"`
	Slope      *float64          `json:"slope"`
	Series     []dga.SeriesPoint `json:"supporting_series"`
}

type outlierResponse struct {
	UnitID    string    `json:"unit_id"`
	Gas       string    `json:"gas_name"`
	Timestamp time.Time `json:"timestamp"`
	Ref       *float64  `json:"reference_value"`
	Value     float64   `json:"concentration_value"`
}

// optional maps a missing value to JSON null.
func optional(v dga.Value) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float
	return &f
}

func newTrendResponse(v dga.TrendVerdict) trendResponse {
	series := v.Series
	if series == nil {
		series = []dga.SeriesPoint{}
	}
	return trendResponse{
		UnitID:     v.UnitID,
		Gas:        v.Gas,
		Direction:  v.Direction,
		Confidence: optional(v.Confidence),
		Statistic:  optional(v.Statistic),
		Slope:      optional(v.Slope),
		Series:     series,
	}
}

func newOutlierResponse(o dga.OutlierRecord) outlierResponse {
	return outlierResponse{
		UnitID:    o.UnitID,
		Gas:       o.Gas,
		Timestamp: o.Timestamp,
		Ref:       optional(o.Ref),
		Value:     o.Value,
	}
}
