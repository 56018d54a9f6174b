package metrics

import "github.com/aurceive/weaponmeta/internal/domain"

// WeaponReport is everything a chart needs for one weapon.
type WeaponReport struct {
	Name       string          `json:"name"`
	Stats      ComparisonStats `json:"stats"`
	Damage     DistanceSeries  `json:"damage"`
	TimeToKill []KillPoint     `json:"timeToKill"`
}

// Report covers a primary and an optional compare weapon over a shared distance range.
type Report struct {
	TotalEffectiveHP float64       `json:"totalEffectiveHP"`
	MaxDistance      float64       `json:"maxDistance"`
	Step             float64       `json:"step"`
	Primary          *WeaponReport `json:"primary,omitempty"`
	Compare          *WeaponReport `json:"compare,omitempty"`
}

// ComputeReport builds the report for the selected weapons. Either may be nil.
func ComputeReport(primary, compare *domain.WeaponRecord, env domain.Environment, step float64) Report {
	if !(step > 0) {
		step = DefaultChartStep
	}
	var selected []domain.WeaponRecord
	for _, w := range []*domain.WeaponRecord{primary, compare} {
		if w != nil {
			selected = append(selected, *w)
		}
	}

	r := Report{
		TotalEffectiveHP: env.TotalEffectiveHP(),
		MaxDistance:      MaxChartDistance(selected...),
		Step:             step,
	}
	// Widen the step rather than truncate the chart when the range is huge.
	if r.MaxDistance/r.Step > MaxChartSamples-1 {
		r.Step = r.MaxDistance / (MaxChartSamples - 1)
	}
	if primary != nil {
		r.Primary = weaponReport(*primary, env, r.MaxDistance, r.Step)
	}
	if compare != nil {
		r.Compare = weaponReport(*compare, env, r.MaxDistance, r.Step)
	}
	return r
}

func weaponReport(w domain.WeaponRecord, env domain.Environment, maxDistance, step float64) *WeaponReport {
	damage := ComputeDistanceSeries(w, maxDistance, step)
	return &WeaponReport{
		Name:       w.Name,
		Stats:      ComputeComparisonStats(w, env),
		Damage:     damage,
		TimeToKill: ComputeTimeToKillSeries(damage.Body, w, env),
	}
}
