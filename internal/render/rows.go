// Package render formats air quality reports for the console and the web
// panel. Both renderers share the row builders below so that field order and
// labels never drift apart.
package render

import (
	"fmt"
	"strings"

	"github.com/aqicn/aqicn/internal/airquality"
)

const (
	labelWidth  = 27
	sensorWidth = 15
	ruleWidth   = 70
)

// RowKind selects how a row is laid out.
type RowKind int

const (
	// RowField is a "label: value" line with the label padded to 27 columns.
	RowField RowKind = iota
	// RowHeading is free text, such as the address.
	RowHeading
	// RowSensor is the sensor location line.
	RowSensor
	// RowRule is a horizontal separator.
	RowRule
	// RowTable is a preformatted forecast line.
	RowTable
)

// Row is one line of a rendered report.
type Row struct {
	Kind  RowKind
	Label string
	Value string
}

// String lays out the row as a single line without a trailing newline.
func (r Row) String() string {
	switch r.Kind {
	case RowHeading:
		return " " + r.Value
	case RowSensor:
		return fmt.Sprintf(" %-*s %s", sensorWidth, r.Label, r.Value)
	case RowRule:
		return " " + strings.Repeat("-", ruleWidth)
	case RowTable:
		return r.Value
	default:
		return fmt.Sprintf(" %-*s %s", labelWidth, r.Label, r.Value)
	}
}

// Lines lays out every row.
func Lines(rows []Row) []string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.String()
	}
	return lines
}

func field(label, value string) Row {
	return Row{Kind: RowField, Label: label, Value: value}
}

// CurrentRows builds the rows of a current-conditions report.
func CurrentRows(r *airquality.Report) []Row {
	return []Row{
		{Kind: RowHeading, Value: r.Address},
		{Kind: RowSensor, Label: "Sensor Location:", Value: r.Sensor},
		{Kind: RowRule},
		field("AQI:", withCategory(r.AQI.String(), r.AQI.Valid, r.AQICategory)),
		field("Dominant Pollutant:", r.DominantPollutant),
		field("Ozone (O₃):", r.O3.String()),
		field("Fine Particulates (PM25):", r.PM25.String()),
		field("Coarse Particulates (PM10):", r.PM10.String()),
		field("Carbon Monoxide (CO):", r.CO.String()),
		field("Sulfur Dioxide (SO₂):", r.SO2.String()),
		field("Nitrogen Dioxide (NO₂):", r.NO2.String()),
		field("UV Index:", withCategory(r.UVI.String(), r.UVI.Valid, r.UVICategory)),
		field("Temperature:", withUnit(r.Temperature.Decimal(), r.Temperature.Valid, "°F")),
		field("Humidity:", withUnit(r.Humidity.String(), r.Humidity.Valid, "%")),
		field("Wind Speed:", withUnit(r.WindSpeed.Decimal(), r.WindSpeed.Valid, " mph")),
		field("Wind Direction:", withCategory(withUnit(r.WindDirection.String(), r.WindDirection.Valid, "°"), r.WindDirection.Valid, r.WindCardinal)),
		field("Pressure:", withUnit(r.Pressure.String(), r.Pressure.Valid, " inHg")),
		field("Observed:", orNotAvailable(r.ObservedAt)),
	}
}

// ForecastRows builds the rows of a daily forecast. The UV column is only
// present when at least one day carries a UV average.
func ForecastRows(f *airquality.Forecast) []Row {
	uvi := f.HasUVI()

	header := fmt.Sprintf("%16s %5s", "o3", "pm25")
	if uvi {
		header += fmt.Sprintf(" %5s", "uvi")
	}

	rows := []Row{
		{Kind: RowHeading, Value: f.Address},
		{Kind: RowSensor, Label: "Sensor Location:", Value: f.Sensor},
		{Kind: RowRule},
		{Kind: RowTable, Value: header},
	}

	if len(f.Days) == 0 {
		return append(rows, Row{Kind: RowHeading, Value: "No forecast available."})
	}

	for _, d := range f.Days {
		line := fmt.Sprintf("%s: %4s %5s", d.Day, d.O3, d.PM25)
		if uvi {
			line += fmt.Sprintf(" %5s", d.UVI)
			if d.UVI.Valid {
				line += " " + airquality.UVICategory(d.UVI.Value)
			}
		}
		rows = append(rows, Row{Kind: RowTable, Value: line})
	}
	return rows
}

// withCategory appends a category label to a valid value.
func withCategory(value string, valid bool, category string) string {
	if !valid || category == "" {
		return value
	}
	return value + " " + category
}

// withUnit appends a unit suffix to a valid value.
func withUnit(value string, valid bool, unit string) string {
	if !valid {
		return value
	}
	return value + unit
}

func orNotAvailable(s string) string {
	if s == "" {
		return airquality.NotAvailable
	}
	return s
}
