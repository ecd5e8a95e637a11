package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
)

type hotelPolicyInput struct {
	Question  string `json:"question" validate:"required" jsonschema_description:"The policy question, e.g. 'Are pets allowed?'."`
	HotelID   string `json:"hotel_id,omitempty" validate:"required_without=HotelName" jsonschema_description:"Hotel ID."`
	HotelName string `json:"hotel_name,omitempty" validate:"required_without=HotelID" jsonschema_description:"Hotel name, used when the ID is unknown."`
}

func (c *Catalog) hotelPolicyTool(_ Scope) (tool.InvokableTool, error) {
	return newTool(c, NameHotelPolicy,
		"Answer a hotel policy question (check-in, cancellation, pets, fees) from the hotel's policy documents, falling back to the web.",
		func(ctx context.Context, in *hotelPolicyInput) (any, error) {
			return c.deps.Policy.Lookup(ctx, in.Question, in.HotelID, in.HotelName)
		})
}

type webPolicySearchInput struct {
	HotelName string `json:"hotel_name" validate:"required" jsonschema_description:"Hotel name."`
	Question  string `json:"question" validate:"required" jsonschema_description:"Policy topic to search for."`
}

func (c *Catalog) webPolicySearchTool(_ Scope) (tool.InvokableTool, error) {
	return newTool(c, NameWebPolicySearch,
		"Search the web for a hotel's published policy pages.",
		func(ctx context.Context, in *webPolicySearchInput) (any, error) {
			results, err := c.deps.Policy.WebSearch(ctx, in.HotelName, in.Question)
			if err != nil {
				return nil, err
			}
			return map[string]any{"results": results}, nil
		})
}
