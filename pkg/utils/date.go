package utils

import "time"

func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// ParseDates converte uma lista de datas YYYY-MM-DD, ignorando valores vazios
func ParseDates(values []string) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}

		date, err := ParseDate(value)
		if err != nil {
			return nil, err
		}
		dates = append(dates, *date)
	}

	return dates, nil
}
