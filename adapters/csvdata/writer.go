package csvdata

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/Verman94/PriceWebApp/core/table"
	"github.com/Verman94/PriceWebApp/internal/errors"
)

var productColumns = []string{
	"part_no", "description", "price_list_type", "model",
	"base_part", "super_base_part",
	"man_hour", "labor_cost", "material_cost", "raw_material_cost",
	"moh", "lab", "overhead_cost", "finished_cost",
	"old_gross", "new_gross", "coefficient",
	"old_base_price", "base_price", "base_price_change_pct",
	"end_user_price", "electrical_price", "wholesale_price",
	"flags",
}

// WriteProducts writes a priced product list to path. Null derived values
// come out as empty cells so spreadsheets read them as blanks, not zeros.
func WriteProducts(path string, products []table.Product) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.TypeStorage, "create "+path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(productColumns); err != nil {
		return errors.Wrap(errors.TypeStorage, "write header", err)
	}
	for i := range products {
		p := &products[i]
		row := []string{
			p.PartNo, p.Description, p.PriceListType, p.Model,
			p.BasePart, p.SuperBasePart,
			cell(p.ManHour), cell(p.LaborCost), cell(p.MaterialCost), cell(p.RawMaterialCost),
			cell(p.MOH), cell(p.LAB), cell(p.OverheadCost), cell(p.FinishedCost),
			cell(p.OldGross), cell(p.NewGross), cell(p.Coefficient),
			cell(p.OldBasePrice), cell(p.BasePrice), cell(p.BasePriceChangePct),
			cell(p.EndUserPrice), cell(p.ElectricalPrice), cell(p.WholesalePrice),
			strings.Join(p.Flags, ";"),
		}
		if err := w.Write(row); err != nil {
			return errors.Wrap(errors.TypeStorage, "write row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(errors.TypeStorage, "flush "+path, err)
	}
	return nil
}

func cell(v table.Float) string {
	if v.IsNull() {
		return ""
	}
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}
