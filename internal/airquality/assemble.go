package airquality

import (
	"github.com/aqicn/aqicn/internal/units"
)

// Assemble builds the current-conditions report from a feed payload.
func Assemble(address string, p *Payload) *Report {
	r := &Report{
		Address:           address,
		Sensor:            textOrUnknown(p.City.Name),
		AQI:               p.AQI,
		AQICategory:       NotAvailable,
		DominantPollutant: textOrUnknown(p.DominentPol),

		O3:   p.IAQI.Reading(string(PollutantO3)),
		PM25: p.IAQI.Reading(string(PollutantPM25)),
		PM10: p.IAQI.Reading(string(PollutantPM10)),
		CO:   p.IAQI.Reading(string(PollutantCO)),
		SO2:  p.IAQI.Reading(string(PollutantSO2)),
		NO2:  p.IAQI.Reading(string(PollutantNO2)),

		UVICategory: NotAvailable,

		Temperature:   p.IAQI.Reading(keyTemperature).Map(units.Fahrenheit),
		Humidity:      p.IAQI.Reading(keyHumidity),
		WindSpeed:     p.IAQI.Reading(keyWindSpeed).Map(units.MPH),
		WindDirection: p.IAQI.Reading(keyWindDirection),
		WindCardinal:  NotAvailable,
		Pressure:      p.IAQI.Reading(keyPressure).Map(units.InHg),

		ObservedAt: p.Time.S,
	}

	if aqi, ok := p.AQI.Int(); ok {
		r.AQICategory = AQICategory(aqi)
	}

	if uvi := p.Forecast.Daily[seriesUVI]; len(uvi) > 0 && uvi[0].Avg.Valid {
		r.UVI = uvi[0].Avg
		r.UVICategory = UVICategory(r.UVI.Value)
	}

	if r.WindDirection.Valid {
		r.WindCardinal = units.Cardinal(r.WindDirection.Value)
	}

	for _, a := range p.Attributions {
		if a.Name != "" {
			r.Attributions = append(r.Attributions, a.Name)
		}
	}

	return r
}

// AssembleForecast builds the daily forecast from a feed payload. The o3 and
// pm25 series are zipped pairwise and the result is as long as the shorter
// one. UV averages are matched by day.
func AssembleForecast(address string, p *Payload) *Forecast {
	o3 := p.Forecast.Daily[string(PollutantO3)]
	pm25 := p.Forecast.Daily[string(PollutantPM25)]

	uviByDay := make(map[string]Reading)
	for _, d := range p.Forecast.Daily[seriesUVI] {
		uviByDay[d.Day] = d.Avg
	}

	n := min(len(o3), len(pm25))
	days := make([]ForecastDay, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, ForecastDay{
			Day:  o3[i].Day,
			O3:   o3[i].Avg,
			PM25: pm25[i].Avg,
			UVI:  uviByDay[o3[i].Day],
		})
	}

	return &Forecast{
		Address: address,
		Sensor:  textOrUnknown(p.City.Name),
		Days:    days,
	}
}

func textOrUnknown(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
