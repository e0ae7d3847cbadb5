package golearn

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sjwhitworth/golearn/base"

	"github.com/wdm0006/dtimpute/pkg/impute"
	"github.com/wdm0006/dtimpute/pkg/table"
)

// Fill replaces missing cells of inst in place: NaN floats and empty
// categories. stats holds one value per attribute in AllAttributes order;
// NaN statistics leave their attribute untouched.
func Fill(inst *base.DenseInstances, stats []any) error {
	attrs := inst.AllAttributes()
	if len(stats) != len(attrs) {
		return fmt.Errorf("golearn: %d statistics for %d attributes", len(stats), len(attrs))
	}
	var (
		asv     []base.AttributeSpec
		missing [][]byte
		fills   [][]byte
	)
	for i, attr := range attrs {
		if table.IsNaN(stats[i]) {
			continue
		}
		spec, err := inst.GetAttribute(attr)
		if err != nil {
			return err
		}
		if attr.GetType() == base.Float64Type {
			v, ok := table.ToFloat(stats[i])
			if !ok {
				return fmt.Errorf("golearn: attribute %s needs a numeric fill, got %v", attr.GetName(), stats[i])
			}
			missing = append(missing, nil)
			fills = append(fills, base.PackFloatToBytes(v))
		} else {
			missing = append(missing, attr.GetSysValFromString(""))
			fills = append(fills, attr.GetSysValFromString(table.FormatValue(stats[i])))
		}
		asv = append(asv, spec)
	}
	return inst.MapOverRows(asv, func(vals [][]byte, row int) (bool, error) {
		for k, v := range vals {
			if missing[k] == nil {
				if !table.IsNaN(base.UnpackBytesToFloat(v)) {
					continue
				}
			} else if !bytes.Equal(v, missing[k]) {
				continue
			}
			inst.Set(asv[k], row, fills[k])
		}
		return true, nil
	})
}

// Impute fits imp on inst and fills inst with the resulting statistics.
func Impute(ctx context.Context, imp *impute.DTypeImputer, inst *base.DenseInstances) error {
	view, err := NewInstances(inst)
	if err != nil {
		return err
	}
	if _, err := imp.Fit(ctx, view); err != nil {
		return err
	}
	return Fill(inst, imp.Statistics())
}
