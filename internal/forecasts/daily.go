package forecasts

import "skycast/internal/types"

// CombineDaily merges a flat chronological list of half-day periods into
// daily records for display.
//
// Each daytime period is paired with the immediately following period if,
// and only if, that following period is not itself a daytime period. The
// cursor advances by two positions when paired and by one otherwise. A
// leading nighttime period has no preceding daytime period to attach to and
// is dropped, not emitted as its own day.
//
// Malformed orderings (two consecutive daytime periods) yield a record per
// daytime period with no night counterpart. That is accepted behavior, not
// an error, which also makes the function idempotent on well-formed
// alternating input.
func CombineDaily(periods []types.ForecastPeriod) []types.DailyForecast {
	var daily []types.DailyForecast

	for i := 0; i < len(periods); {
		day := periods[i]
		if !day.IsDaytime {
			i++
			continue
		}

		record := types.DailyForecast{
			Number:    day.Number,
			Name:      day.Name,
			StartTime: day.StartTime,
			Day:       day,
		}

		if i+1 < len(periods) && !periods[i+1].IsDaytime {
			night := periods[i+1]
			record.Night = &night
			i += 2
		} else {
			i++
		}

		daily = append(daily, record)
	}

	return daily
}

// Flatten returns the constituent periods of daily records in their original
// chronological order. It is the inverse of CombineDaily on well-formed
// alternating input.
func Flatten(daily []types.DailyForecast) []types.ForecastPeriod {
	var periods []types.ForecastPeriod
	for _, d := range daily {
		periods = append(periods, d.Day)
		if d.Night != nil {
			periods = append(periods, *d.Night)
		}
	}
	return periods
}
