package metrics

import "github.com/aurceive/weaponmeta/internal/domain"

// ComparisonStats are the scalar numbers shown next to the charts.
type ComparisonStats struct {
	RateOfFire float64 `json:"rateOfFire"`
	DPSBody    float64 `json:"dpsBody"`
	DPSHead    float64 `json:"dpsHead"`
	Body       Kill    `json:"body"`
	Head       Kill    `json:"head"`
}

// ComputeComparisonStats uses the unmodified Damage; falloff only shows up in
// the distance series.
func ComputeComparisonStats(w domain.WeaponRecord, env domain.Environment) ComparisonStats {
	var s ComparisonStats
	if w.TimeBetweenShots > 0 {
		s.RateOfFire = 60 / w.TimeBetweenShots
	}
	s.DPSBody = w.Damage * (s.RateOfFire / 60)
	s.DPSHead = s.DPSBody * w.HeadShotDamageModifier

	hp := env.TotalEffectiveHP()
	s.Body = ComputeKill(HitLocationDamage(w.Damage, w, Body), hp, w.TimeBetweenShots)
	s.Head = ComputeKill(HitLocationDamage(w.Damage, w, Head), hp, w.TimeBetweenShots)
	return s
}
