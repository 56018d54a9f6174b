package meta

import (
	"bytes"
	"strconv"

	"github.com/aurceive/weaponmeta/internal/domain"

	"github.com/beevik/etree"
)

// Encode renders records as a complete weapons.meta document, in the given order.
//
// Only tracked fields are written, always under their primary tag. Decoding the
// result gives back the same records (within six decimals), but anything else
// the source document carried is gone.
//
// ClipSize is written as <ClipSize value="30"/>, the form game files and the
// browser editor emit, with no forced decimals. Decode accepts it as a value
// attribute or as text content.
func Encode(records []domain.WeaponRecord) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	infos := doc.CreateElement(RootTag).CreateElement(CollectionTag)

	for i := range records {
		item := infos.CreateElement(ItemTag)
		item.CreateAttr("type", ItemType)
		for _, f := range domain.Fields {
			el := item.CreateElement(f.OutputTag())
			switch {
			case f.Kind == domain.FieldText:
				el.SetText(*f.Text(&records[i]))
			case f.Plain:
				el.CreateAttr("value", strconv.FormatFloat(*f.Number(&records[i]), 'f', -1, 64))
			default:
				el.CreateAttr("value", formatFloat(*f.Number(&records[i])))
			}
		}
	}

	doc.Indent(2)
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
