// Package csvdata loads a dataset snapshot from a directory of CSV files
// and writes priced product lists back out. It stands in for the
// spreadsheet layer: the core only ever sees materialized tables.
package csvdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Verman94/PriceWebApp/core/table"
	"github.com/Verman94/PriceWebApp/internal/errors"
)

// Input file names expected in the dataset directory
const (
	FileCostCenters = "cost_centers.csv"
	FileAluminium   = "aluminium_profiles.csv"
	FileImported    = "imported_materials.csv"
	FileManHours    = "man_hours.csv"
	FileBOM         = "bom.csv"
	FileShemsh      = "shemsh.csv"
	FileShortList   = "dom_short.csv"
	FileFullList    = "dom_all.csv"
	FileCompare     = "compare.csv"
)

// LoadDataset reads every input table found in dir. A missing file is a
// per-table warning and loads as an empty table; a malformed file aborts
// the load with a descriptive error.
func LoadDataset(dir string) (*table.Dataset, []string, error) {
	ds := &table.Dataset{}
	var warnings []string

	load := func(name string, parse func(*sheet) error) error {
		sh, err := readSheet(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			warnings = append(warnings, "input file missing: "+name)
			return nil
		}
		if err != nil {
			return errors.Wrap(errors.TypeInput, "read "+name, err)
		}
		if err := parse(sh); err != nil {
			return errors.Wrap(errors.TypeInput, "parse "+name, err)
		}
		return nil
	}

	steps := []struct {
		file  string
		parse func(*sheet) error
	}{
		{FileCostCenters, func(sh *sheet) error { return parseCostCenters(sh, ds) }},
		{FileAluminium, func(sh *sheet) error { return parseAluminium(sh, ds) }},
		{FileImported, func(sh *sheet) error { return parseImported(sh, ds) }},
		{FileManHours, func(sh *sheet) error { return parseManHours(sh, ds) }},
		{FileBOM, func(sh *sheet) error { return parseBOM(sh, ds) }},
		{FileShemsh, func(sh *sheet) error { return parseShemsh(sh, ds) }},
		{FileShortList, func(sh *sheet) error { return parseProducts(sh, &ds.ShortList) }},
		{FileFullList, func(sh *sheet) error { return parseProducts(sh, &ds.FullList) }},
		{FileCompare, func(sh *sheet) error { return parseCompare(sh, ds) }},
	}
	for _, step := range steps {
		if err := load(step.file, step.parse); err != nil {
			return nil, nil, err
		}
	}
	return ds, warnings, nil
}

// sheet is one parsed CSV file with a normalized header index
type sheet struct {
	header map[string]int
	cols   []string
	rows   [][]string
}

func readSheet(path string) (*sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &sheet{header: map[string]int{}}, nil
	}

	sh := &sheet{header: make(map[string]int, len(records[0]))}
	for i, name := range records[0] {
		key := normalize(name)
		sh.header[key] = i
		sh.cols = append(sh.cols, key)
	}
	sh.rows = records[1:]
	return sh, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// str reads a string cell; absent columns read as empty
func (sh *sheet) str(row []string, col string) string {
	i, ok := sh.header[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// num reads a numeric cell; an empty cell is zero
func (sh *sheet) num(row []string, col string, rowNo int) (table.Float, error) {
	raw := sh.str(row, col)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: column %q: %q is not numeric", rowNo+2, col, raw)
	}
	return table.Float(v), nil
}

func parseCostCenters(sh *sheet, ds *table.Dataset) error {
	for _, row := range sh.rows {
		ds.CostCenters = append(ds.CostCenters, table.CostCenter{
			Code:        sh.str(row, "cost_center"),
			Description: sh.str(row, "description"),
		})
	}
	return nil
}

func parseAluminium(sh *sheet, ds *table.Dataset) error {
	// Fee columns follow a naming convention rather than a fixed schema
	var feeCols []string
	for _, col := range sh.cols {
		if strings.Contains(col, "base fee") || strings.Contains(col, "base_fee") {
			feeCols = append(feeCols, col)
		}
	}
	for n, row := range sh.rows {
		al := table.AluminiumProfile{PartNo: sh.str(row, "part_no")}
		var err error
		if al.Weight, err = sh.num(row, "weight", n); err != nil {
			return err
		}
		for _, col := range feeCols {
			fee, err := sh.num(row, col, n)
			if err != nil {
				return err
			}
			al.Fees = append(al.Fees, fee)
		}
		ds.Aluminium = append(ds.Aluminium, al)
	}
	return nil
}

func parseImported(sh *sheet, ds *table.Dataset) error {
	for n, row := range sh.rows {
		rm := table.ImportedRawMaterial{
			PartNo:   sh.str(row, "part_no"),
			Currency: sh.str(row, "currency"),
		}
		for _, f := range []struct {
			col string
			dst *table.Float
		}{
			{"cost", &rm.Cost},
			{"commission1_pct", &rm.Commission1Pct},
			{"commission2_pct", &rm.Commission2Pct},
			{"tariff_pct", &rm.TariffPct},
		} {
			v, err := sh.num(row, f.col, n)
			if err != nil {
				return err
			}
			*f.dst = v
		}
		ds.Imported = append(ds.Imported, rm)
	}
	return nil
}

func parseManHours(sh *sheet, ds *table.Dataset) error {
	for n, row := range sh.rows {
		mh := table.ManHourLine{
			CostCenter: sh.str(row, "cost_center"),
			PartNo:     sh.str(row, "part_no"),
		}
		for _, f := range []struct {
			col string
			dst *table.Float
		}{
			{"run_factor", &mh.RunFactor},
			{"setup_time", &mh.SetupTime},
			{"std_lot_size", &mh.StdLotSize},
			{"qty", &mh.Qty},
			{"crew_size", &mh.CrewSize},
		} {
			v, err := sh.num(row, f.col, n)
			if err != nil {
				return err
			}
			*f.dst = v
		}
		ds.ManHours = append(ds.ManHours, mh)
	}
	return nil
}

func parseBOM(sh *sheet, ds *table.Dataset) error {
	for n, row := range sh.rows {
		line := table.BOMLine{
			TopLevelPartNo: sh.str(row, "top_level_part_no"),
			PartNo:         sh.str(row, "part_no"),
			TemplateID:     sh.str(row, "template_id"),
		}
		var err error
		if line.CumQtyPerAssembly, err = sh.num(row, "cum_qty_per_assembly", n); err != nil {
			return err
		}
		if line.EstimatedMtrCost, err = sh.num(row, "estimated_mtr_cost", n); err != nil {
			return err
		}
		ds.BOM = append(ds.BOM, line)
	}
	return nil
}

func parseShemsh(sh *sheet, ds *table.Dataset) error {
	for n, row := range sh.rows {
		p := table.ShemshPart{PartNo: sh.str(row, "part_no")}
		var err error
		if p.EstMtrCost, err = sh.num(row, "est_mtr_cost", n); err != nil {
			return err
		}
		ds.Shemsh = append(ds.Shemsh, p)
	}
	return nil
}

func parseProducts(sh *sheet, out *[]table.Product) error {
	for n, row := range sh.rows {
		p := table.Product{
			PartNo:        sh.str(row, "part_no"),
			Description:   sh.str(row, "description"),
			PriceListType: sh.str(row, "price_list_type"),
			Model:         sh.str(row, "model"),
			BasePart:      sh.str(row, "base_part"),
			SuperBasePart: sh.str(row, "super_base_part"),
		}
		for _, f := range []struct {
			col string
			dst *table.Float
		}{
			{"depreciation", &p.Depreciation},
			{"machine", &p.Machine},
			{"old_base_price", &p.OldBasePrice},
			{"old_finished_cost_with_comp", &p.OldFinishedCostWithComp},
			{"original_price", &p.OriginalPrice},
			{"new_gross", &p.NewGross},
			{"base_price_change_pct", &p.BasePriceChangePct},
		} {
			v, err := sh.num(row, f.col, n)
			if err != nil {
				return err
			}
			*f.dst = v
		}
		*out = append(*out, p)
	}
	return nil
}

func parseCompare(sh *sheet, ds *table.Dataset) error {
	for _, row := range sh.rows {
		ds.Compare = append(ds.Compare, table.CompareRule{
			Part1:          sh.str(row, "part1"),
			Part2:          sh.str(row, "part2"),
			SuperComponent: sh.str(row, "super_component"),
		})
	}
	return nil
}
