package server

import (
	"encoding/json"
	"strings"

	"github.com/aurceive/weaponmeta/internal/domain"
	"github.com/aurceive/weaponmeta/internal/metrics"
)

// Client -> Server message types
const (
	MsgLoad   = "load"
	MsgSelect = "select"
	MsgEdit   = "edit"
	MsgEnv    = "env"
	MsgSave   = "save"
	MsgReset  = "reset"
)

// Server -> Client message types
const (
	MsgWelcome = "welcome"
	MsgState   = "state"
	MsgSaved   = "saved"
	MsgError   = "error"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string `json:"t"`
	Data any    `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; D is decoded per type.
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

type FileMsg struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type LoadMsg struct {
	Files []FileMsg `json:"files"`
}

// SelectMsg changes the selection. A nil slot is left alone; an empty
// compare name clears the compare slot.
type SelectMsg struct {
	Primary *string `json:"primary,omitempty"`
	Compare *string `json:"compare,omitempty"`
}

// EditMsg targets either a selection slot ("primary", "compare") or a weapon
// by name. Value may be a JSON string or number.
type EditMsg struct {
	Slot   string          `json:"slot,omitempty"`
	Weapon string          `json:"weapon,omitempty"`
	Field  string          `json:"field"`
	Value  json.RawMessage `json:"value"`
}

// rawValue returns the edit value as the text a user would have typed.
func (m EditMsg) rawValue() string {
	var s string
	if err := json.Unmarshal(m.Value, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(m.Value))
}

type EnvMsg struct {
	Health *float64 `json:"health,omitempty"`
	Armor  *float64 `json:"armor,omitempty"`
	Step   *float64 `json:"step,omitempty"`
}

type WelcomeMsg struct {
	ID string `json:"id"`
}

type FieldInfo struct {
	Key      string          `json:"key"`
	Label    string          `json:"label"`
	Category domain.Category `json:"category"`
	Text     bool            `json:"text,omitempty"`
}

type LoadStatus struct {
	File    string `json:"file"`
	Weapons int    `json:"weapons"`
	Error   string `json:"error,omitempty"`
}

// StateMsg is broadcast after every change.
type StateMsg struct {
	Weapons      []string             `json:"weapons"`
	Primary      *domain.WeaponRecord `json:"primary,omitempty"`
	Compare      *domain.WeaponRecord `json:"compare,omitempty"`
	TargetHealth float64              `json:"targetHealth"`
	TargetArmor  float64              `json:"targetArmor"`
	Report       metrics.Report       `json:"report"`
	Fields       []FieldInfo          `json:"fields"`
	Loaded       []LoadStatus         `json:"loaded,omitempty"`
}

type SavedMsg struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type ErrorMsg struct {
	Msg string `json:"msg"`
}

var fieldInfos = func() []FieldInfo {
	out := make([]FieldInfo, 0, len(domain.Fields))
	for _, f := range domain.Fields {
		out = append(out, FieldInfo{Key: f.Key, Label: f.Label, Category: f.Category, Text: f.Kind == domain.FieldText})
	}
	return out
}()
