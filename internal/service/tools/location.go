package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
)

type geocodeInput struct {
	Address string `json:"address" validate:"required" jsonschema_description:"Street address or place name to locate."`
}

func (c *Catalog) geocodeTool(_ Scope) (tool.InvokableTool, error) {
	return newTool(c, NameGeocode,
		"Geocode a hotel or place address to latitude, longitude and a map link.",
		func(ctx context.Context, in *geocodeInput) (any, error) {
			return c.deps.Geocoder.Geocode(ctx, in.Address)
		})
}

type weatherInput struct {
	Location string `json:"location" validate:"required" jsonschema_description:"City or coordinates."`
	Date     string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02" jsonschema_description:"Forecast date in YYYY-MM-DD format. Omit for current weather."`
}

func (c *Catalog) weatherTool(_ Scope) (tool.InvokableTool, error) {
	return newTool(c, NameWeather,
		"Retrieve the weather forecast for a date, or current weather when no date is given.",
		func(ctx context.Context, in *weatherInput) (any, error) {
			c.log.Info("weather lookup", "location", in.Location, "date", in.Date)
			return c.deps.Weather.Forecast(ctx, in.Location, in.Date)
		})
}
