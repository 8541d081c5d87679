package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"stock-options-api/internal/chain"
	"stock-options-api/internal/yahoo"
)

// Quote fetches the option chain for a symbol and prints it as a table.
func (a *App) Quote(ctx context.Context, opts QuoteOptions) error {
	provider := a.newProvider()
	symbol := strings.ToUpper(strings.TrimSpace(opts.Symbol))

	target, calls, puts, err := a.fetchCleanedChain(ctx, provider, symbol, opts.Expiration)
	if err != nil {
		return err
	}

	price := yahoo.ResolveCurrentPrice(ctx, provider, symbol, a.Config.Yahoo.HistoryRange, a.Logger)

	fmt.Fprintf(os.Stdout, "%s  expiration %s  underlying %s\n\n", symbol, target, formatPrice(&price, 2))

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Type\tContract\tStrike\tLast\tBid\tAsk\tVol\tOI\tIV\tITM")
	writeContractRows(writer, "CALL", calls)
	writeContractRows(writer, "PUT", puts)
	return writer.Flush()
}

func writeContractRows(writer *tabwriter.Writer, side string, records []chain.Record) {
	for _, record := range records {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%v\n",
			side,
			recordString(record, "contractSymbol"),
			formatPrice(recordFloat(record, "strike"), 2),
			formatPrice(recordFloat(record, "lastPrice"), 2),
			formatPrice(recordFloat(record, "bid"), 2),
			formatPrice(recordFloat(record, "ask"), 2),
			formatCount(recordInt(record, "volume")),
			formatCount(recordInt(record, "openInterest")),
			formatPrice(recordFloat(record, "impliedVolatility"), 4),
			recordBool(record, "inTheMoney"),
		)
	}
}

func recordFloat(record chain.Record, key string) *float64 {
	if v, ok := record[key].(*float64); ok {
		return v
	}
	return nil
}

func recordInt(record chain.Record, key string) *int64 {
	if v, ok := record[key].(*int64); ok {
		return v
	}
	return nil
}

func recordString(record chain.Record, key string) string {
	if v, ok := record[key].(string); ok {
		return v
	}
	return "-"
}

func recordBool(record chain.Record, key string) bool {
	v, _ := record[key].(bool)
	return v
}

func formatPrice(v *float64, places int32) string {
	if v == nil {
		return "-"
	}
	return decimal.NewFromFloat(*v).StringFixed(places)
}

func formatCount(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
