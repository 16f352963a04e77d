package expense

import (
	"fmt"

	"github.com/spf13/viper"
)

// Defaults used when the reference-data file leaves a knob unset. Named so the
// substitutions stay auditable (every use increments a RunMeta counter).
const (
	DefaultFallbackCommissionPct = 17.0
	DefaultStorageDays           = 1
	DefaultVolumeLiters          = 1.0
)

// ReferenceData is the marketplace reference tables the calculator depends
// on: commission rates by category and acceptance fees. It is external data,
// loaded from a profile file, never hardcoded in the calculator.
type ReferenceData struct {
	CommissionRates       map[string]float64 `mapstructure:"commission_rates"` // category -> percent
	FallbackCommissionPct float64            `mapstructure:"fallback_commission_pct"`

	AcceptanceBase     float64            `mapstructure:"acceptance_base"`      // flat fee per unit
	AcceptancePerLiter float64            `mapstructure:"acceptance_per_liter"` // volumetric part
	AcceptanceRates    map[string]float64 `mapstructure:"acceptance_rates"`     // per-category flat override

	StorageDefaultDays  int     `mapstructure:"storage_default_days"`
	DefaultVolumeLiters float64 `mapstructure:"default_volume_liters"`
}

// LoadReferenceData reads the reference tables from the given file
// (yaml/toml/json, decided by extension).
func LoadReferenceData(path string) (*ReferenceData, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}

	var data ReferenceData
	if err := v.Unmarshal(&data); err != nil {
		return nil, fmt.Errorf("parse reference data: %w", err)
	}
	data.applyDefaults()
	return &data, nil
}

func (d *ReferenceData) applyDefaults() {
	if d.CommissionRates == nil {
		d.CommissionRates = map[string]float64{}
	}
	if d.AcceptanceRates == nil {
		d.AcceptanceRates = map[string]float64{}
	}
	if d.FallbackCommissionPct == 0 {
		d.FallbackCommissionPct = DefaultFallbackCommissionPct
	}
	if d.StorageDefaultDays == 0 {
		d.StorageDefaultDays = DefaultStorageDays
	}
	if d.DefaultVolumeLiters == 0 {
		d.DefaultVolumeLiters = DefaultVolumeLiters
	}
}

// CommissionRate returns the percent rate for a category. known is false when
// the fallback rate was substituted.
func (d *ReferenceData) CommissionRate(category string) (rate float64, known bool) {
	if rate, ok := d.CommissionRates[category]; ok {
		return rate, true
	}
	return d.FallbackCommissionPct, false
}

// AcceptanceFee computes the acceptance fee for (category, volume).
func (d *ReferenceData) AcceptanceFee(category string, volumeLiters float64) float64 {
	if flat, ok := d.AcceptanceRates[category]; ok {
		return flat
	}
	return d.AcceptanceBase + d.AcceptancePerLiter*volumeLiters
}
