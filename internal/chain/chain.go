package chain

// Row is a single raw option contract as decoded from the provider
// response. Values are left exactly as the JSON decoder produced them so
// dirty upstream data reaches the cleaning pass untouched.
type Row map[string]any

// Record is one cleaned, JSON-safe contract row. Float fields are either
// finite numbers or explicit nulls; columns missing from the source row are
// absent from the record rather than null.
type Record map[string]any

// canonicalColumns is the allow-list of provider columns that survive
// cleaning. Anything else the provider returns is dropped.
var canonicalColumns = []string{
	"contractSymbol",
	"strike",
	"lastPrice",
	"bid",
	"ask",
	"change",
	"percentChange",
	"volume",
	"openInterest",
	"impliedVolatility",
	"inTheMoney",
	"lastTradeDate",
}
