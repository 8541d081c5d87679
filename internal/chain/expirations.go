package chain

import "time"

const expirationDateLayout = "2006-01-02"

// ExpirationOption decorates a provider expiration date with the number of
// whole days until expiry and a display label. DaysToExpiration is nil when
// the date string does not parse.
type ExpirationOption struct {
	Date             string `json:"date"`
	DaysToExpiration *int   `json:"daysToExpiration"`
	Label            string `json:"label"`
}

// Expirations builds the decorated expiration list for a response. Days are
// floored at zero so expired dates still in the provider list never produce a
// negative count. Unparseable dates keep the raw string as their label.
func Expirations(dates []string, now time.Time) []ExpirationOption {
	options := make([]ExpirationOption, 0, len(dates))
	today := now.UTC().Truncate(24 * time.Hour)

	for _, date := range dates {
		option := ExpirationOption{Date: date, Label: date}

		expiry, err := time.Parse(expirationDateLayout, date)
		if err == nil {
			days := int(expiry.Sub(today).Hours() / 24)
			if days < 0 {
				days = 0
			}
			option.DaysToExpiration = &days
			option.Label = expiry.Format("Jan 2, 2006")
		}

		options = append(options, option)
	}

	return options
}
