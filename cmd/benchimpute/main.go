package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/wdm0006/dtimpute/pkg/impute"
	"github.com/wdm0006/dtimpute/pkg/table"
)

type generator struct {
	schema table.Schema
	missp  float64
	rnd    *rand.Rand
}

func (g *generator) frame(n int) *table.Frame {
	f := table.NewFrame(g.schema)
	for i := 0; i < n; i++ {
		f.AppendNullRow()
		for _, cs := range g.schema.Columns {
			if g.rnd.Float64() < g.missp {
				continue
			}
			switch cs.Type {
			case table.KindFloat:
				_ = f.SetCell(i, cs.Name, g.rnd.Float64()*100)
			case table.KindInt:
				_ = f.SetCell(i, cs.Name, int64(g.rnd.Intn(100)))
			case table.KindString:
				_ = f.SetCell(i, cs.Name, fmt.Sprintf("level%d", g.rnd.Intn(8)))
			}
		}
	}
	return f
}

func main() {
	var (
		rows     = flag.Int("rows", 1_000_000, "rows to generate")
		fcols    = flag.Int("float-cols", 4, "number of float columns")
		icols    = flag.Int("int-cols", 2, "number of int columns")
		scols    = flag.Int("string-cols", 2, "number of string columns")
		missp    = flag.Float64("missing", 0.05, "probability of missing values in each cell")
		strategy = flag.String("strategy", "most_frequent", "mean|median|most_frequent|constant")
		jsonOut  = flag.Bool("json", false, "emit JSON summary")
		seed     = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	var cols []table.ColumnSchema
	for i := 0; i < *fcols; i++ {
		cols = append(cols, table.ColumnSchema{Name: fmt.Sprintf("f%d", i), Type: table.KindFloat, Nullable: true})
	}
	for i := 0; i < *icols; i++ {
		cols = append(cols, table.ColumnSchema{Name: fmt.Sprintf("i%d", i), Type: table.KindInt, Nullable: true})
	}
	for i := 0; i < *scols; i++ {
		cols = append(cols, table.ColumnSchema{Name: fmt.Sprintf("s%d", i), Type: table.KindString, Nullable: true})
	}
	gen := &generator{schema: table.Schema{Columns: cols}, missp: *missp, rnd: rand.New(rand.NewSource(*seed))}
	f := gen.frame(*rows)

	imp := impute.New(impute.Config{Strategy: impute.Strategy(*strategy)})

	runtime.GC()
	time.Sleep(100 * time.Millisecond)

	var msBefore, msAfter runtime.MemStats
	runtime.ReadMemStats(&msBefore)
	start := time.Now()
	if _, err := imp.Fit(context.Background(), f); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fitElapsed := time.Since(start)
	if _, err := imp.Transform(context.Background(), f); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&msAfter)

	rowsPerSec := float64(*rows) / elapsed.Seconds()
	summary := map[string]any{
		"rows":                  *rows,
		"strategy":              *strategy,
		"fit_ms":                fitElapsed.Milliseconds(),
		"elapsed_ms":            elapsed.Milliseconds(),
		"rows_per_sec":          rowsPerSec,
		"mem_alloc_bytes":       msAfter.Alloc,
		"mem_total_alloc_bytes": msAfter.TotalAlloc - msBefore.TotalAlloc,
		"gc_num":                msAfter.NumGC - msBefore.NumGC,
		"cols":                  map[string]int{"float": *fcols, "int": *icols, "string": *scols},
		"missing_prob":          *missp,
	}

	if *jsonOut {
		b, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Printf("Rows: %d\n", *rows)
	fmt.Printf("Fit: %s\n", fitElapsed)
	fmt.Printf("Elapsed: %s\n", elapsed)
	fmt.Printf("Throughput: %.0f rows/s\n", rowsPerSec)
	fmt.Printf("Current Alloc: %d MB\n", msAfter.Alloc/1024/1024)
	fmt.Printf("Total Alloc (delta): %d MB\n", (msAfter.TotalAlloc-msBefore.TotalAlloc)/1024/1024)
	fmt.Printf("GC cycles (delta): %d\n", msAfter.NumGC-msBefore.NumGC)
}
