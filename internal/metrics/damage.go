// Package metrics derives combat statistics from weapon records.
package metrics

import (
	"math"

	"github.com/aurceive/weaponmeta/internal/domain"
)

type HitLocation int

const (
	Body HitLocation = iota
	Head
	Limb
)

func (l HitLocation) String() string {
	switch l {
	case Head:
		return "head"
	case Limb:
		return "limb"
	default:
		return "body"
	}
}

// FalloffDamage returns the per-hit damage at distance d.
//
// Damage is full up to DamageFallOffRangeMin, scales linearly to
// Damage*DamageFallOffModifier at DamageFallOffRangeMax and stays there.
// A zero-width (or inverted) range jumps straight to the far value past min.
func FalloffDamage(w domain.WeaponRecord, d float64) float64 {
	lo, hi := w.DamageFallOffRangeMin, w.DamageFallOffRangeMax
	far := w.Damage * w.DamageFallOffModifier
	switch {
	case d <= lo:
		return w.Damage
	case d >= hi || hi <= lo:
		return far
	}
	progress := (d - lo) / (hi - lo)
	return w.Damage + (far-w.Damage)*progress
}

// HitLocationDamage applies the hit location multiplier to base.
func HitLocationDamage(base float64, w domain.WeaponRecord, loc HitLocation) float64 {
	switch loc {
	case Head:
		return base * w.HeadShotDamageModifier
	case Limb:
		return base * w.LimbDamageModifier
	default:
		return base
	}
}

// MaxBulletsToKill caps BulletsToKill; larger counts are reported as invalid.
const MaxBulletsToKill = math.MaxInt32

// BulletsToKill is ceil(totalHP / damagePerHit). ok is false when the result
// is undefined: non-positive or non-finite damage, nothing to kill, or a
// count above MaxBulletsToKill.
func BulletsToKill(damagePerHit, totalHP float64) (bullets int, ok bool) {
	if !(damagePerHit > 0) || math.IsInf(damagePerHit, 0) || !(totalHP > 0) || math.IsInf(totalHP, 0) {
		return 0, false
	}
	n := math.Ceil(totalHP / damagePerHit)
	if math.IsInf(n, 0) || math.IsNaN(n) || n > MaxBulletsToKill {
		return 0, false
	}
	return int(n), true
}

// TimeToKill is the time between the first and the killing shot. The first
// hit lands at t=0.
func TimeToKill(bullets int, timeBetweenShots float64) float64 {
	return float64(bullets-1) * timeBetweenShots
}

// Kill is a bullets/time to kill pair. Valid is false when the damage per
// hit or the target pool makes the numbers meaningless.
type Kill struct {
	Bullets int     `json:"bullets"`
	Seconds float64 `json:"seconds"`
	Valid   bool    `json:"valid"`
}

// ComputeKill combines BulletsToKill and TimeToKill.
func ComputeKill(damagePerHit, totalHP, timeBetweenShots float64) Kill {
	bullets, ok := BulletsToKill(damagePerHit, totalHP)
	if !ok {
		return Kill{}
	}
	return Kill{Bullets: bullets, Seconds: TimeToKill(bullets, timeBetweenShots), Valid: true}
}
