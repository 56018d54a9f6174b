package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid value")
)

type FieldKind int

const (
	FieldNumber FieldKind = iota
	FieldText
)

type Category string

const (
	CategoryCore     Category = "core"
	CategoryFalloff  Category = "range_falloff"
	CategoryAdvanced Category = "advanced"
	CategoryMeta     Category = "meta"
)

// Field describes one tracked WeaponRecord field: how it is named in the file
// format, how it is edited and what it falls back to.
type Field struct {
	Key      string
	Label    string
	Category Category
	Kind     FieldKind

	// Tags lists accepted input tags in priority order. Tags[0] is always
	// the tag written on output.
	Tags []string

	Default     float64
	TextDefault string

	// ZeroIsAbsent makes a parsed 0 fall back to the default on decode. Set on
	// every field whose default is non-zero.
	ZeroIsAbsent bool

	// Plain numbers are written without forced decimals (ClipSize).
	Plain bool

	Number func(*WeaponRecord) *float64
	Text   func(*WeaponRecord) *string
}

// OutputTag is the canonical tag used when encoding.
func (f Field) OutputTag() string {
	return f.Tags[0]
}

// Reset sets the field to its default.
func (f Field) Reset(w *WeaponRecord) {
	switch f.Kind {
	case FieldText:
		*f.Text(w) = f.TextDefault
	default:
		*f.Number(w) = f.Default
	}
}

// Fields is the static table of tracked fields, in output order.
var Fields = []Field{
	{Key: "name", Label: "Name", Category: CategoryMeta, Kind: FieldText, Tags: []string{"Name"}, TextDefault: DefaultName,
		Text: func(w *WeaponRecord) *string { return &w.Name }},
	{Key: "damage", Label: "Damage", Category: CategoryCore, Tags: []string{"Damage"},
		Number: func(w *WeaponRecord) *float64 { return &w.Damage }},
	{Key: "timeBetweenShots", Label: "Time Between Shots (s)", Category: CategoryCore, Tags: []string{"TimeBetweenShots"},
		Number: func(w *WeaponRecord) *float64 { return &w.TimeBetweenShots }},
	{Key: "weaponRange", Label: "Max Range (m)", Category: CategoryFalloff, Tags: []string{"WeaponRange"},
		Number: func(w *WeaponRecord) *float64 { return &w.WeaponRange }},
	{Key: "damageFallOffRangeMin", Label: "Falloff Start (m)", Category: CategoryFalloff, Tags: []string{"DamageFallOffRangeMin"},
		Number: func(w *WeaponRecord) *float64 { return &w.DamageFallOffRangeMin }},
	{Key: "damageFallOffRangeMax", Label: "Falloff End (m)", Category: CategoryFalloff, Tags: []string{"DamageFallOffRangeMax"},
		Number: func(w *WeaponRecord) *float64 { return &w.DamageFallOffRangeMax }},
	{Key: "damageFallOffModifier", Label: "Falloff Min Dmg Modifier", Category: CategoryFalloff, Tags: []string{"DamageFallOffModifier"}, Default: 1.0, ZeroIsAbsent: true,
		Number: func(w *WeaponRecord) *float64 { return &w.DamageFallOffModifier }},
	{Key: "headShotDamageModifier", Label: "Headshot Multiplier", Category: CategoryAdvanced, Tags: []string{"HeadShotDamageModifierPlayer", "HeadShotDamageModifier"}, Default: 1.0, ZeroIsAbsent: true,
		Number: func(w *WeaponRecord) *float64 { return &w.HeadShotDamageModifier }},
	{Key: "armorDamageModifier", Label: "Armor Damage Multiplier", Category: CategoryAdvanced, Tags: []string{"ArmorDamageModifier"}, Default: 1.0, ZeroIsAbsent: true,
		Number: func(w *WeaponRecord) *float64 { return &w.ArmorDamageModifier }},
	{Key: "limbDamageModifier", Label: "Limb Damage Multiplier", Category: CategoryAdvanced, Tags: []string{"HitLimbsDamageModifier"}, Default: 1.0, ZeroIsAbsent: true,
		Number: func(w *WeaponRecord) *float64 { return &w.LimbDamageModifier }},
	{Key: "minHeadShotDistance", Label: "Min Headshot Distance (m)", Category: CategoryAdvanced, Tags: []string{"MinHeadShotDistancePlayer"},
		Number: func(w *WeaponRecord) *float64 { return &w.MinHeadShotDistance }},
	{Key: "maxHeadShotDistance", Label: "Max Headshot Distance (m)", Category: CategoryAdvanced, Tags: []string{"MaxHeadShotDistancePlayer"}, Default: 1000, ZeroIsAbsent: true,
		Number: func(w *WeaponRecord) *float64 { return &w.MaxHeadShotDistance }},
	{Key: "clipSize", Label: "Clip Size", Category: CategoryCore, Tags: []string{"ClipSize"}, Plain: true,
		Number: func(w *WeaponRecord) *float64 { return &w.ClipSize }},
	{Key: "group", Label: "Group", Category: CategoryMeta, Kind: FieldText, Tags: []string{"Group"}, TextDefault: DefaultGroup,
		Text: func(w *WeaponRecord) *string { return &w.Group }},
}

var fieldsByKey = func() map[string]int {
	m := make(map[string]int, len(Fields))
	for i, f := range Fields {
		m[f.Key] = i
	}
	return m
}()

// FieldByKey looks up a field by its edit key (e.g. "damage").
func FieldByKey(key string) (Field, bool) {
	i, ok := fieldsByKey[strings.TrimSpace(key)]
	if !ok {
		return Field{}, false
	}
	return Fields[i], true
}

// ParseNumber parses a numeric field value. Non-finite values are rejected.
func ParseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ApplyField sets one field from user input. Invalid numeric input leaves the
// record unchanged and returns ErrInvalidValue.
func ApplyField(w *WeaponRecord, key string, raw string) error {
	f, ok := FieldByKey(key)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, key)
	}
	if f.Kind == FieldText {
		*f.Text(w) = strings.TrimSpace(raw)
		return nil
	}
	v, ok := ParseNumber(raw)
	if !ok {
		return fmt.Errorf("%s: %w %q", f.Key, ErrInvalidValue, raw)
	}
	*f.Number(w) = v
	return nil
}

// FieldValue renders the current value of a field as text.
func FieldValue(w *WeaponRecord, key string) (string, error) {
	f, ok := FieldByKey(key)
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownField, key)
	}
	if f.Kind == FieldText {
		return *f.Text(w), nil
	}
	return strconv.FormatFloat(*f.Number(w), 'f', -1, 64), nil
}
