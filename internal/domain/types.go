package domain

import "strings"

// WeaponPrefix marks the CWeaponInfo items that describe actual weapons.
// The same item kind is reused for vehicle guns, ammo and other entities.
const WeaponPrefix = "WEAPON_"

const (
	DefaultName  = "Unknown"
	DefaultGroup = "Generic"
)

// WeaponRecord is one editable CWeaponInfo entry.
type WeaponRecord struct {
	Name  string `msgpack:"name" json:"name"`
	Group string `msgpack:"group" json:"group"`

	Damage           float64 `msgpack:"damage" json:"damage"`
	TimeBetweenShots float64 `msgpack:"time_between_shots" json:"timeBetweenShots"`
	ClipSize         float64 `msgpack:"clip_size" json:"clipSize"`

	WeaponRange           float64 `msgpack:"weapon_range" json:"weaponRange"`
	DamageFallOffRangeMin float64 `msgpack:"falloff_min" json:"damageFallOffRangeMin"`
	DamageFallOffRangeMax float64 `msgpack:"falloff_max" json:"damageFallOffRangeMax"`
	DamageFallOffModifier float64 `msgpack:"falloff_modifier" json:"damageFallOffModifier"`

	HeadShotDamageModifier float64 `msgpack:"headshot_modifier" json:"headShotDamageModifier"`
	ArmorDamageModifier    float64 `msgpack:"armor_modifier" json:"armorDamageModifier"`
	LimbDamageModifier     float64 `msgpack:"limb_modifier" json:"limbDamageModifier"`
	MinHeadShotDistance    float64 `msgpack:"min_headshot_distance" json:"minHeadShotDistance"`
	MaxHeadShotDistance    float64 `msgpack:"max_headshot_distance" json:"maxHeadShotDistance"`
}

// NewWeaponRecord returns a record with every field at its documented default.
func NewWeaponRecord() WeaponRecord {
	var w WeaponRecord
	for _, f := range Fields {
		f.Reset(&w)
	}
	return w
}

// IsWeapon reports whether the record name carries the weapon prefix.
func (w WeaponRecord) IsWeapon() bool {
	return strings.HasPrefix(w.Name, WeaponPrefix)
}

// DisplayName strips the weapon prefix for selectors and table headers.
func DisplayName(name string) string {
	return strings.Replace(name, WeaponPrefix, "", 1)
}
