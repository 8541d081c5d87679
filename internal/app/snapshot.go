package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"

	"stock-options-api/internal/chain"
)

// Snapshot fetches a chain once and exports it as CSV and/or a PNG chart of
// implied volatility by strike.
func (a *App) Snapshot(ctx context.Context, opts SnapshotOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	provider := a.newProvider()
	symbol := strings.ToUpper(strings.TrimSpace(opts.Symbol))

	target, calls, puts, err := a.fetchCleanedChain(ctx, provider, symbol, opts.Expiration)
	if err != nil {
		return err
	}

	a.Logger.Info().Str("symbol", symbol).Str("expiration", target).
		Int("calls", len(calls)).Int("puts", len(puts)).Msg("exporting chain snapshot")

	if opts.CSVPath != "" {
		if err := writeChainCSV(opts.CSVPath, calls, puts); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeVolatilityPNG(opts.PNGPath, symbol, target, calls, puts); err != nil {
			return err
		}
	}

	return nil
}

var snapshotColumns = []string{
	"type", "contractSymbol", "expirationDate", "strike", "lastPrice",
	"bid", "ask", "volume", "openInterest", "impliedVolatility", "inTheMoney",
}

func writeChainCSV(path string, calls, puts []chain.Record) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(snapshotColumns); err != nil {
		return err
	}

	write := func(side string, records []chain.Record) error {
		for _, record := range records {
			row := []string{
				side,
				recordString(record, "contractSymbol"),
				recordString(record, "expirationDate"),
				csvPrice(recordFloat(record, "strike"), 2),
				csvPrice(recordFloat(record, "lastPrice"), 2),
				csvPrice(recordFloat(record, "bid"), 2),
				csvPrice(recordFloat(record, "ask"), 2),
				csvCount(recordInt(record, "volume")),
				csvCount(recordInt(record, "openInterest")),
				csvPrice(recordFloat(record, "impliedVolatility"), 6),
				fmt.Sprint(recordBool(record, "inTheMoney")),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
		return nil
	}

	if err := write("call", calls); err != nil {
		return err
	}
	if err := write("put", puts); err != nil {
		return err
	}

	return writer.Error()
}

func csvPrice(v *float64, places int32) string {
	if v == nil {
		return ""
	}
	return formatPrice(v, places)
}

func csvCount(v *int64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(*v)
}

func writeVolatilityPNG(path, symbol, expiration string, calls, puts []chain.Record) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	callX, callY := volatilityPoints(calls)
	putX, putY := volatilityPoints(puts)
	if len(callX) == 0 && len(putX) == 0 {
		return errors.New("no strikes with implied volatility to plot")
	}

	pctFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Title:  fmt.Sprintf("%s implied volatility  %s", symbol, expiration),
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			Name:           "Strike",
			ValueFormatter: pctFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Implied Volatility",
			ValueFormatter: pctFormatter,
		},
	}

	if len(callX) > 0 {
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    "Calls",
			XValues: callX,
			YValues: callY,
		})
	}
	if len(putX) > 0 {
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    "Puts",
			XValues: putX,
			YValues: putY,
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

// volatilityPoints extracts (strike, IV) pairs from cleaned records, sorted
// by strike. Records missing either value are skipped.
func volatilityPoints(records []chain.Record) ([]float64, []float64) {
	type point struct{ strike, iv float64 }
	points := make([]point, 0, len(records))

	for _, record := range records {
		strike := recordFloat(record, "strike")
		iv := recordFloat(record, "impliedVolatility")
		if strike == nil || iv == nil {
			continue
		}
		points = append(points, point{*strike, *iv})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].strike < points[j].strike })

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.strike
		ys[i] = p.iv
	}
	return xs, ys
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
