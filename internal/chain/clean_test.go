package chain

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"
)

func TestSafeFloatFiniteValues(t *testing.T) {
	cases := map[any]float64{
		float64(187.25): 187.25,
		float32(2.5):    2.5,
		int(42):         42,
		int64(-7):       -7,
		"3.14":          3.14,
	}
	for input, want := range cases {
		got := SafeFloat(input)
		if got == nil {
			t.Fatalf("SafeFloat(%v) returned nil, want %v", input, want)
		}
		if *got != want {
			t.Fatalf("SafeFloat(%v) = %v, want %v", input, *got, want)
		}
	}

	if got := SafeFloat(json.Number("0.3341")); got == nil || *got != 0.3341 {
		t.Fatalf("SafeFloat(json.Number) = %v, want 0.3341", got)
	}
}

func TestSafeFloatNonFiniteValues(t *testing.T) {
	inputs := []any{
		nil,
		math.NaN(),
		math.Inf(1),
		math.Inf(-1),
		"N/A",
		"NaN",
		"",
		"-",
		"not a number",
		[]string{"unexpected"},
	}
	for _, input := range inputs {
		if got := SafeFloat(input); got != nil {
			t.Fatalf("SafeFloat(%v) = %v, want nil", input, *got)
		}
	}
}

func TestCleanEmptyInput(t *testing.T) {
	records := Clean(nil, "2024-01-19")
	if len(records) != 0 {
		t.Fatalf("expected empty output for empty input, got %d records", len(records))
	}

	records = Clean([]Row{}, "2024-01-19")
	if len(records) != 0 {
		t.Fatalf("expected empty output for empty slice, got %d records", len(records))
	}
}

func TestCleanStampsExpirationAndFiltersColumns(t *testing.T) {
	rows := []Row{
		{
			"contractSymbol": "AAPL240119C00190000",
			"strike":         float64(190),
			"lastPrice":      float64(2.31),
			"bid":            math.NaN(),
			"ask":            math.Inf(1),
			"volume":         float64(1523),
			"openInterest":   nil,
			"inTheMoney":     true,
			"currency":       "USD",
			"contractSize":   "REGULAR",
		},
	}

	records := Clean(rows, "2024-01-19")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	record := records[0]

	if record["expirationDate"] != "2024-01-19" {
		t.Fatalf("expirationDate not stamped: %v", record["expirationDate"])
	}
	if record["contractSymbol"] != "AAPL240119C00190000" {
		t.Fatalf("contractSymbol mangled: %v", record["contractSymbol"])
	}
	if _, ok := record["currency"]; ok {
		t.Fatal("non-canonical column currency should be dropped")
	}
	if _, ok := record["contractSize"]; ok {
		t.Fatal("non-canonical column contractSize should be dropped")
	}

	strike := record["strike"].(*float64)
	if strike == nil || *strike != 190 {
		t.Fatalf("strike = %v, want 190", strike)
	}
	if bid := record["bid"].(*float64); bid != nil {
		t.Fatalf("NaN bid should clean to nil, got %v", *bid)
	}
	if ask := record["ask"].(*float64); ask != nil {
		t.Fatalf("+Inf ask should clean to nil, got %v", *ask)
	}
	if volume := record["volume"].(*int64); volume == nil || *volume != 1523 {
		t.Fatalf("volume = %v, want 1523", volume)
	}
	if oi := record["openInterest"].(*int64); oi != nil {
		t.Fatalf("nil openInterest should clean to nil, got %v", *oi)
	}
	if itm := record["inTheMoney"].(bool); !itm {
		t.Fatal("inTheMoney should stay true")
	}
}

func TestCleanOmitsAbsentColumns(t *testing.T) {
	rows := []Row{{"strike": float64(100)}}

	records := Clean(rows, "2024-02-16")
	record := records[0]

	if _, ok := record["bid"]; ok {
		t.Fatal("absent bid column should be omitted, not emitted as null")
	}
	if _, ok := record["contractSymbol"]; ok {
		t.Fatal("absent contractSymbol column should be omitted")
	}
	if record["expirationDate"] != "2024-02-16" {
		t.Fatal("expirationDate must be present even for sparse rows")
	}
	if len(record) != 2 {
		t.Fatalf("expected only strike + expirationDate, got %d keys", len(record))
	}
}

func TestCleanInTheMoneyDefaultsFalse(t *testing.T) {
	rows := []Row{
		{"inTheMoney": nil},
		{"inTheMoney": "garbage"},
		{"inTheMoney": false},
		{"inTheMoney": "true"},
	}

	records := Clean(rows, "2024-01-19")
	want := []bool{false, false, false, true}
	for i, record := range records {
		got, ok := record["inTheMoney"].(bool)
		if !ok {
			t.Fatalf("record %d: inTheMoney is not a bool: %T", i, record["inTheMoney"])
		}
		if got != want[i] {
			t.Fatalf("record %d: inTheMoney = %v, want %v", i, got, want[i])
		}
	}
}

func TestCleanTimestampDegradation(t *testing.T) {
	rows := []Row{
		{"lastTradeDate": float64(1705600800)},
		{"lastTradeDate": "2024-01-18 15:30:00"},
		{"lastTradeDate": "last thursday"},
		{"lastTradeDate": nil},
	}

	records := Clean(rows, "2024-01-19")

	if ts := records[0]["lastTradeDate"].(string); !strings.HasPrefix(ts, "2024-01-18T") {
		t.Fatalf("epoch timestamp not converted: %v", ts)
	}
	if ts := records[1]["lastTradeDate"].(string); ts != "2024-01-18T15:30:00Z" {
		t.Fatalf("textual timestamp not normalized: %v", ts)
	}
	if ts := records[2]["lastTradeDate"]; ts != "last thursday" {
		t.Fatalf("unparseable timestamp should fall back to raw string, got %v", ts)
	}
	if ts := records[3]["lastTradeDate"]; ts != nil {
		t.Fatalf("nil timestamp should stay nil, got %v", ts)
	}
}

func TestCleanRecordsMarshalWithExplicitNulls(t *testing.T) {
	rows := []Row{{"contractSymbol": "AAPL240119P00180000", "bid": math.NaN(), "inTheMoney": nil}}

	payload, err := json.Marshal(Clean(rows, "2024-01-19"))
	if err != nil {
		t.Fatalf("cleaned records must always marshal: %v", err)
	}

	body := string(payload)
	if !strings.Contains(body, `"bid":null`) {
		t.Fatalf("NaN bid should marshal as explicit null: %s", body)
	}
	if !strings.Contains(body, `"inTheMoney":false`) {
		t.Fatalf("missing inTheMoney should marshal as false: %s", body)
	}
}

func TestExpirationsDayFloor(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	options := Expirations([]string{"2024-01-19", "2023-12-15", "not-a-date"}, now)

	if len(options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(options))
	}

	if options[0].DaysToExpiration == nil || *options[0].DaysToExpiration != 4 {
		t.Fatalf("future expiry days = %v, want 4", options[0].DaysToExpiration)
	}
	if options[0].Label != "Jan 19, 2024" {
		t.Fatalf("label = %q", options[0].Label)
	}

	if options[1].DaysToExpiration == nil || *options[1].DaysToExpiration != 0 {
		t.Fatalf("past expiry days = %v, want floor at 0", options[1].DaysToExpiration)
	}

	if options[2].DaysToExpiration != nil {
		t.Fatal("unparseable date should have nil days")
	}
	if options[2].Label != "not-a-date" {
		t.Fatalf("unparseable date should keep raw label, got %q", options[2].Label)
	}
}
