// Package meta reads and writes the CWeaponInfo dialect of weapons.meta files.
package meta

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aurceive/weaponmeta/internal/domain"

	"github.com/beevik/etree"
)

const (
	RootTag       = "CWeaponInfoBlob"
	CollectionTag = "Infos"
	ItemTag       = "Item"
	ItemType      = "CWeaponInfo"

	SuggestedFilename = "weapons.meta"
)

// ErrMalformed is returned when the input is not well-formed XML.
var ErrMalformed = errors.New("malformed weapon document")

// Decode extracts every weapon record from a weapons.meta document.
//
// Only <Item type="CWeaponInfo"> elements are considered, wherever they sit in
// the tree, and only those whose Name starts with WEAPON_ are returned.
// Missing or unparsable fields fall back to their defaults. A well-formed
// document without weapons yields an empty slice and no error.
func Decode(document []byte) ([]domain.WeaponRecord, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(document); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := checkDocumentLevel(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	root := doc.Root()

	weapons := make([]domain.WeaponRecord, 0)
	walkItems(root, func(item *etree.Element) {
		w := decodeItem(item)
		if w.IsWeapon() {
			weapons = append(weapons, w)
		}
	})
	return weapons, nil
}

// checkDocumentLevel enforces what the lax tree reader lets through: exactly
// one root element and nothing but whitespace around it.
func checkDocumentLevel(doc *etree.Document) error {
	roots := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			roots++
		case *etree.CharData:
			if !t.IsWhitespace() {
				return errors.New("text outside the root element")
			}
		}
	}
	switch roots {
	case 0:
		return errors.New("no root element")
	case 1:
		return nil
	default:
		return fmt.Errorf("%d root elements", roots)
	}
}

// walkItems visits matching items in document order.
func walkItems(el *etree.Element, visit func(*etree.Element)) {
	if el.Tag == ItemTag && el.SelectAttrValue("type", "") == ItemType {
		visit(el)
	}
	for _, child := range el.ChildElements() {
		walkItems(child, visit)
	}
}

func decodeItem(item *etree.Element) domain.WeaponRecord {
	var w domain.WeaponRecord
	for _, f := range domain.Fields {
		switch f.Kind {
		case domain.FieldText:
			*f.Text(&w) = resolveText(item, f)
		default:
			*f.Number(&w) = resolveNumber(item, f)
		}
	}
	return w
}

// resolveNumber builds the fallback chain from the lowest priority tag up, so
// the first tag carrying a usable value wins.
func resolveNumber(item *etree.Element, f domain.Field) float64 {
	v := f.Default
	for i := len(f.Tags) - 1; i >= 0; i-- {
		raw, found := childValue(item, f.Tags[i])
		parsed, ok := domain.ParseNumber(raw)
		v = resolveWithDefault(parsed, found && ok, v, f.ZeroIsAbsent)
	}
	return v
}

// resolveWithDefault returns parsed when ok, def otherwise. With zeroIsAbsent
// a literal 0 in the file cannot be told apart from a missing value and is
// replaced by the default.
func resolveWithDefault(parsed float64, ok bool, def float64, zeroIsAbsent bool) float64 {
	if !ok || (zeroIsAbsent && parsed == 0) {
		return def
	}
	return parsed
}

func resolveText(item *etree.Element, f domain.Field) string {
	for _, tag := range f.Tags {
		raw, found := childValue(item, tag)
		if s := strings.TrimSpace(raw); found && s != "" {
			return s
		}
	}
	return f.TextDefault
}

// childValue returns the value attribute of the first direct child named tag,
// falling back to its text content.
func childValue(item *etree.Element, tag string) (string, bool) {
	for _, child := range item.ChildElements() {
		if child.Tag != tag {
			continue
		}
		if attr := child.SelectAttr("value"); attr != nil {
			return attr.Value, true
		}
		return child.Text(), true
	}
	return "", false
}
