package metrics

import (
	"math"
	"testing"

	"github.com/aurceive/weaponmeta/internal/domain"
)

func testWeapon() domain.WeaponRecord {
	w := domain.NewWeaponRecord()
	w.Name = "WEAPON_TEST"
	w.Damage = 40
	w.TimeBetweenShots = 0.2
	w.WeaponRange = 120
	w.DamageFallOffRangeMin = 30
	w.DamageFallOffRangeMax = 80
	w.DamageFallOffModifier = 0.5
	w.HeadShotDamageModifier = 2
	w.LimbDamageModifier = 0.75
	return w
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFalloffDamage_Boundaries(t *testing.T) {
	w := testWeapon()
	if got := FalloffDamage(w, 0); got != 40 {
		t.Fatalf("expected full damage at 0, got %v", got)
	}
	if got := FalloffDamage(w, w.DamageFallOffRangeMin); got != w.Damage {
		t.Fatalf("expected full damage at falloff start, got %v", got)
	}
	if got := FalloffDamage(w, w.DamageFallOffRangeMax); got != w.Damage*w.DamageFallOffModifier {
		t.Fatalf("expected reduced damage at falloff end, got %v", got)
	}
	if got := FalloffDamage(w, 1000); got != 20 {
		t.Fatalf("expected reduced damage past falloff end, got %v", got)
	}
	if got := FalloffDamage(w, 55); !almostEqual(got, 30) {
		t.Fatalf("expected midpoint damage 30, got %v", got)
	}
}

func TestFalloffDamage_Monotonic(t *testing.T) {
	w := testWeapon()
	prev := FalloffDamage(w, w.DamageFallOffRangeMin)
	for d := w.DamageFallOffRangeMin; d <= w.DamageFallOffRangeMax; d += 0.5 {
		got := FalloffDamage(w, d)
		if got > prev+1e-9 {
			t.Fatalf("expected non-increasing damage, got %v after %v at d=%v", got, prev, d)
		}
		prev = got
	}
}

func TestFalloffDamage_ZeroWidthRange(t *testing.T) {
	w := testWeapon()
	w.DamageFallOffRangeMin = 50
	w.DamageFallOffRangeMax = 50
	if got := FalloffDamage(w, 50); got != 40 {
		t.Fatalf("expected full damage at the shared bound, got %v", got)
	}
	got := FalloffDamage(w, 50.0001)
	if math.IsNaN(got) || got != 20 {
		t.Fatalf("expected jump to far damage past the bound, got %v", got)
	}
}

func TestHitLocationDamage(t *testing.T) {
	w := testWeapon()
	if got := HitLocationDamage(10, w, Body); got != 10 {
		t.Fatalf("body: expected 10, got %v", got)
	}
	if got := HitLocationDamage(10, w, Head); got != 20 {
		t.Fatalf("head: expected 20, got %v", got)
	}
	if got := HitLocationDamage(10, w, Limb); got != 7.5 {
		t.Fatalf("limb: expected 7.5, got %v", got)
	}

	plain := domain.NewWeaponRecord()
	for _, loc := range []HitLocation{Body, Head, Limb} {
		if got := HitLocationDamage(10, plain, loc); got != 10 {
			t.Fatalf("%s: expected unmodified weapon to deal 10, got %v", loc, got)
		}
	}
}

func TestBulletsAndTimeToKill(t *testing.T) {
	bullets, ok := BulletsToKill(25, 200)
	if !ok || bullets != 8 {
		t.Fatalf("expected 8 bullets, got %d (ok=%v)", bullets, ok)
	}
	if got := TimeToKill(bullets, 0.1); !almostEqual(got, 0.7) {
		t.Fatalf("expected 0.7s, got %v", got)
	}
	if _, ok := BulletsToKill(0, 200); ok {
		t.Fatalf("expected zero damage to be invalid")
	}
	if _, ok := BulletsToKill(-5, 200); ok {
		t.Fatalf("expected negative damage to be invalid")
	}
	if _, ok := BulletsToKill(25, 0); ok {
		t.Fatalf("expected zero effective HP to be invalid")
	}
	if _, ok := BulletsToKill(math.NaN(), 200); ok {
		t.Fatalf("expected NaN damage to be invalid")
	}
	if bullets, ok := BulletsToKill(1e-20, 200); ok || bullets != 0 {
		t.Fatalf("expected tiny damage to be invalid, got %d (ok=%v)", bullets, ok)
	}
	if _, ok := BulletsToKill(1e-3, 200); !ok {
		t.Fatalf("expected 200000 bullets to still be valid")
	}

	w := testWeapon()
	w.Damage = 1e-20
	if s := ComputeComparisonStats(w, domain.NewEnvironment()); s.Body.Valid || s.Body.Bullets != 0 {
		t.Fatalf("expected tiny damage kill to be invalid, got %#v", s.Body)
	}
}

func TestComputeComparisonStats(t *testing.T) {
	w := testWeapon()
	env := domain.NewEnvironment()
	s := ComputeComparisonStats(w, env)

	if !almostEqual(s.RateOfFire, 300) {
		t.Fatalf("expected 300 RPM, got %v", s.RateOfFire)
	}
	if !almostEqual(s.DPSBody, 200) || !almostEqual(s.DPSHead, 400) {
		t.Fatalf("unexpected dps: body=%v head=%v", s.DPSBody, s.DPSHead)
	}
	// 200 HP: body 40 -> 5 bullets, head 80 -> 3 bullets.
	if !s.Body.Valid || s.Body.Bullets != 5 || !almostEqual(s.Body.Seconds, 0.8) {
		t.Fatalf("unexpected body kill: %#v", s.Body)
	}
	if !s.Head.Valid || s.Head.Bullets != 3 || !almostEqual(s.Head.Seconds, 0.4) {
		t.Fatalf("unexpected head kill: %#v", s.Head)
	}
}

func TestComputeComparisonStats_Guards(t *testing.T) {
	w := testWeapon()
	w.Damage = 0
	w.TimeBetweenShots = 0
	s := ComputeComparisonStats(w, domain.NewEnvironment())
	if s.RateOfFire != 0 || s.DPSBody != 0 {
		t.Fatalf("expected zero rate of fire and dps, got %#v", s)
	}
	if s.Body.Valid || s.Head.Valid {
		t.Fatalf("expected zero damage kills to be invalid, got %#v", s)
	}
}

func TestMaxChartDistance(t *testing.T) {
	a := testWeapon() // range 120, falloff end 80+50
	b := testWeapon()
	b.WeaponRange = 90
	b.DamageFallOffRangeMax = 150 // 200 with margin
	if got := MaxChartDistance(a); got != 130 {
		t.Fatalf("expected 130, got %v", got)
	}
	if got := MaxChartDistance(a, b); got != 200 {
		t.Fatalf("expected 200, got %v", got)
	}
	if got := MaxChartDistance(); got != 0 {
		t.Fatalf("expected 0 for no weapons, got %v", got)
	}
}

func TestDistanceSamples(t *testing.T) {
	w := testWeapon()
	var distances []float64
	for s := range DistanceSamples(w, 100, 10) {
		distances = append(distances, s.Distance)
		if !almostEqual(s.Head, s.Body*2) || !almostEqual(s.Limb, s.Body*0.75) {
			t.Fatalf("unexpected channel ratios at %v: %#v", s.Distance, s)
		}
	}
	if len(distances) != 11 || distances[0] != 0 || distances[10] != 100 {
		t.Fatalf("expected 0..100 inclusive in steps of 10, got %v", distances)
	}

	// Restartable.
	count := 0
	for range DistanceSamples(w, 100, 10) {
		count++
	}
	if count != 11 {
		t.Fatalf("expected second iteration to yield 11 samples, got %d", count)
	}

	for range DistanceSamples(w, 100, 0) {
		t.Fatalf("expected no samples for zero step")
	}

	count = 0
	for range DistanceSamples(w, 1000, 1e-9) {
		count++
	}
	if count != MaxChartSamples {
		t.Fatalf("expected samples capped at %d, got %d", MaxChartSamples, count)
	}
}

func TestComputeTimeToKillSeries(t *testing.T) {
	w := testWeapon()
	env := domain.NewEnvironment()
	series := ComputeDistanceSeries(w, 130, 10)
	ttk := ComputeTimeToKillSeries(series.Body, w, env)
	if len(ttk) != len(series.Body) {
		t.Fatalf("expected one ttk point per sample, got %d vs %d", len(ttk), len(series.Body))
	}
	// 0m: 40 damage -> 5 bullets; 130m: 20 damage -> 10 bullets.
	if ttk[0].Bullets != 5 || ttk[len(ttk)-1].Bullets != 10 {
		t.Fatalf("unexpected ttk endpoints: %#v %#v", ttk[0], ttk[len(ttk)-1])
	}
	if !almostEqual(ttk[len(ttk)-1].Seconds, 1.8) {
		t.Fatalf("expected 1.8s at range, got %v", ttk[len(ttk)-1].Seconds)
	}
}

func TestComputeReport(t *testing.T) {
	a := testWeapon()
	b := testWeapon()
	b.Name = "WEAPON_OTHER"
	b.WeaponRange = 300
	r := ComputeReport(&a, &b, domain.NewEnvironment(), 0)
	if r.Step != DefaultChartStep {
		t.Fatalf("expected default step, got %v", r.Step)
	}
	if r.MaxDistance != 300 {
		t.Fatalf("expected shared max distance 300, got %v", r.MaxDistance)
	}
	if r.Primary == nil || r.Compare == nil {
		t.Fatalf("expected both weapon reports")
	}
	if len(r.Primary.Damage.Body) != len(r.Compare.Damage.Body) {
		t.Fatalf("expected both series to share the x range")
	}

	r = ComputeReport(nil, nil, domain.NewEnvironment(), 10)
	if r.Primary != nil || r.Compare != nil {
		t.Fatalf("expected empty report")
	}
}

func TestComputeReport_BoundsSampleCount(t *testing.T) {
	a := testWeapon()
	a.WeaponRange = 1e12
	r := ComputeReport(&a, nil, domain.NewEnvironment(), 1e-9)
	if n := len(r.Primary.Damage.Body); n == 0 || n > MaxChartSamples {
		t.Fatalf("expected 1..%d samples, got %d", MaxChartSamples, n)
	}
	if r.Step < a.WeaponRange/(MaxChartSamples-1) {
		t.Fatalf("expected step widened to cover the range, got %v", r.Step)
	}
	last := r.Primary.Damage.Body[len(r.Primary.Damage.Body)-1]
	if math.Abs(last.X-a.WeaponRange) > 1 {
		t.Fatalf("expected the series to reach the full range, last sample at %v", last.X)
	}
}
