package metrics

import (
	"iter"
	"math"

	"github.com/aurceive/weaponmeta/internal/domain"
)

const (
	DefaultChartStep = 10.0

	// FalloffChartMargin keeps the tail past the falloff end visible.
	FalloffChartMargin = 50.0

	// MinChartStep is the finest step accepted from users.
	MinChartStep = 0.5
	// MaxChartSamples bounds every distance series, whatever the range.
	MaxChartSamples = 10001
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sample is the damage per hit location at one distance.
type Sample struct {
	Distance float64
	Body     float64
	Head     float64
	Limb     float64
}

type DistanceSeries struct {
	Body []Point `json:"body"`
	Head []Point `json:"head"`
	Limb []Point `json:"limb"`
}

type KillPoint struct {
	Distance float64 `json:"distance"`
	Kill
}

// MaxChartDistance is the x extent of a chart covering all given weapons.
func MaxChartDistance(weapons ...domain.WeaponRecord) float64 {
	maxDist := 0.0
	for _, w := range weapons {
		maxDist = math.Max(maxDist, math.Max(w.WeaponRange, w.DamageFallOffRangeMax+FalloffChartMargin))
	}
	return maxDist
}

// DistanceSamples yields one sample every step from 0 to maxDistance
// inclusive, at most MaxChartSamples of them. The sequence can be ranged over
// any number of times.
func DistanceSamples(w domain.WeaponRecord, maxDistance, step float64) iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		if !(step > 0) || !(maxDistance >= 0) || math.IsInf(maxDistance, 0) {
			return
		}
		n := math.Floor(maxDistance/step + 1e-9)
		if n > MaxChartSamples-1 {
			n = MaxChartSamples - 1
		}
		for i := 0; i <= int(n); i++ {
			d := float64(i) * step
			base := FalloffDamage(w, d)
			s := Sample{
				Distance: d,
				Body:     HitLocationDamage(base, w, Body),
				Head:     HitLocationDamage(base, w, Head),
				Limb:     HitLocationDamage(base, w, Limb),
			}
			if !yield(s) {
				return
			}
		}
	}
}

// ComputeDistanceSeries collects DistanceSamples into per-channel point series.
func ComputeDistanceSeries(w domain.WeaponRecord, maxDistance, step float64) DistanceSeries {
	var s DistanceSeries
	for sample := range DistanceSamples(w, maxDistance, step) {
		s.Body = append(s.Body, Point{X: sample.Distance, Y: sample.Body})
		s.Head = append(s.Head, Point{X: sample.Distance, Y: sample.Head})
		s.Limb = append(s.Limb, Point{X: sample.Distance, Y: sample.Limb})
	}
	return s
}

// ComputeTimeToKillSeries maps body damage samples to time to kill.
func ComputeTimeToKillSeries(body []Point, w domain.WeaponRecord, env domain.Environment) []KillPoint {
	hp := env.TotalEffectiveHP()
	out := make([]KillPoint, 0, len(body))
	for _, p := range body {
		out = append(out, KillPoint{Distance: p.X, Kill: ComputeKill(p.Y, hp, w.TimeBetweenShots)})
	}
	return out
}
