package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aurceive/weaponmeta/internal/domain"
	"github.com/aurceive/weaponmeta/internal/workspace"

	"github.com/xuri/excelize/v2"
)

// ImportWeaponsXLSX reads the Weapons sheet of a report and turns every
// non-empty cell into an edit against the weapon named in the same row.
// Columns are matched by the field key in the header row; unknown columns are
// skipped. The name column identifies the row and is never edited.
func ImportWeaponsXLSX(path string) ([]workspace.EditRequest, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if idx, _ := f.GetSheetIndex(SheetWeapons); idx == -1 {
		return nil, fmt.Errorf("xlsx %q: missing sheet %q", filepath.Base(path), SheetWeapons)
	}
	rows, err := f.GetRows(SheetWeapons)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", SheetWeapons, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	nameCol := -1
	keys := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		key := strings.TrimSpace(h)
		if _, ok := domain.FieldByKey(key); !ok {
			continue
		}
		if key == "name" {
			nameCol = i
			continue
		}
		keys[i] = key
	}
	if nameCol == -1 {
		return nil, fmt.Errorf("xlsx %q: %s sheet has no name column", filepath.Base(path), SheetWeapons)
	}

	var edits []workspace.EditRequest
	for _, row := range rows[1:] {
		if nameCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			// Skip malformed/partial rows.
			continue
		}
		for i, v := range row {
			if i >= len(keys) || keys[i] == "" || strings.TrimSpace(v) == "" {
				continue
			}
			edits = append(edits, workspace.EditRequest{Weapon: name, Field: keys[i], Value: strings.TrimSpace(v)})
		}
	}
	return edits, nil
}
