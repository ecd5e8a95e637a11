// Package tools 行程规划 Agent 可调用的工具集合
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/go-playground/validator/v10"

	"github.com/ashwinyue/travel-planner/internal/logger"
	"github.com/ashwinyue/travel-planner/internal/model"
	"github.com/ashwinyue/travel-planner/internal/service/booking"
	"github.com/ashwinyue/travel-planner/internal/service/geocode"
	"github.com/ashwinyue/travel-planner/internal/service/hotel"
	"github.com/ashwinyue/travel-planner/internal/service/policy"
	"github.com/ashwinyue/travel-planner/internal/service/websearch"
)

// 工具名称
const (
	NameUserProfile       = "get_user_profile_tool"
	NameHotelPolicy       = "query_hotel_policy_tool"
	NameWebPolicySearch   = "web_policy_search_tool"
	NameGeocode           = "geocode_hotel_tool"
	NameSearchHotels      = "search_hotels_tool"
	NameHotelInfo         = "get_hotel_info_tool"
	NameCheckAvailability = "check_hotel_availability_tool"
	NameCreateBooking     = "create_booking_tool"
	NameBookingHandoff    = "booking_handoff_tool"
	NameWeather           = "get_weather_forecast_tool"
)

// Scope 单轮对话的用户上下文，显式传入每个工具
type Scope struct {
	UserID   string
	UserName string
}

// ProfileReader 用户资料读取
type ProfileReader interface {
	Lookup(ctx context.Context, userID string) (*model.UserProfile, error)
}

// BookingService 预订能力
type BookingService interface {
	Create(ctx context.Context, userID string, req *model.BookingRequest) (*model.BookingResult, error)
	List(ctx context.Context, userID string) ([]*model.Booking, error)
	Handoff(ctx context.Context, req booking.HandoffRequest) (*booking.Handoff, error)
}

// HotelService 酒店能力
type HotelService interface {
	Search(ctx context.Context, p hotel.SearchParams) (*hotel.SearchResult, error)
	Details(ctx context.Context, p hotel.DetailsParams) (*hotel.Details, error)
	Availability(ctx context.Context, p hotel.AvailabilityParams) (*hotel.Availability, error)
	ResolveHotelID(ctx context.Context, hotelID, hotelName string) (string, error)
}

// PolicyService 酒店政策
type PolicyService interface {
	Lookup(ctx context.Context, question, hotelID, hotelName string) (*policy.Answer, error)
	WebSearch(ctx context.Context, hotelName, question string) ([]websearch.Result, error)
}

// Geocoder 地理编码
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*geocode.Location, error)
}

// WeatherService 天气
type WeatherService interface {
	Forecast(ctx context.Context, location, date string) (json.RawMessage, error)
}

// Deps 工具依赖，Profiles 为 nil 时个性化不可用
type Deps struct {
	Profiles ProfileReader
	Bookings BookingService
	Hotels   HotelService
	Policy   PolicyService
	Geocoder Geocoder
	Weather  WeatherService
	// Extra 与用户无关的通用工具，如 wikipedia
	Extra []tool.BaseTool
}

// Catalog 工具目录
type Catalog struct {
	deps     Deps
	validate *validator.Validate
	log      *logger.Logger
}

// NewCatalog 创建工具目录
func NewCatalog(deps Deps, log *logger.Logger) *Catalog {
	v := validator.New()
	// 校验错误使用 JSON 字段名，便于模型修正参数
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Catalog{deps: deps, validate: v, log: log}
}

// Build 为指定用户构建本轮可用的工具
func (c *Catalog) Build(ctx context.Context, scope Scope) ([]tool.BaseTool, error) {
	builders := []func(Scope) (tool.InvokableTool, error){
		c.userProfileTool,
		c.hotelPolicyTool,
		c.webPolicySearchTool,
		c.geocodeTool,
		c.searchHotelsTool,
		c.hotelInfoTool,
		c.availabilityTool,
		c.createBookingTool,
		c.bookingHandoffTool,
		c.weatherTool,
	}

	tools := make([]tool.BaseTool, 0, len(builders)+len(c.deps.Extra))
	for _, build := range builders {
		t, err := build(scope)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return append(tools, c.deps.Extra...), nil
}

// newTool 由类型化函数推断工具，参数在任何外部调用之前完成校验
// 业务错误以 {"error": "..."} 返回给模型
func newTool[T any](c *Catalog, name, desc string, fn func(ctx context.Context, in *T) (any, error)) (tool.InvokableTool, error) {
	t, err := utils.InferTool(name, desc, func(ctx context.Context, in *T) (string, error) {
		if err := c.validate.Struct(in); err != nil {
			c.log.Warn("tool arguments rejected", "tool", name, "error", err)
			return ErrorPayload(describeValidation(err)), nil
		}
		out, err := fn(ctx, in)
		if err != nil {
			c.log.Warn("tool failed", "tool", name, "error", err)
			return ErrorPayload(err.Error()), nil
		}
		return encode(out)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tool %s: %w", name, err)
	}
	return t, nil
}

// ErrorPayload 工具错误的统一输出
func ErrorPayload(msg string) string {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return string(data)
}

func encode(out any) (string, error) {
	switch v := out.(type) {
	case string:
		return v, nil
	case json.RawMessage:
		return string(v), nil
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to encode tool output: %w", err)
	}
	return string(data), nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid arguments: " + err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", fieldPath(fe.Namespace()), rule))
	}
	return "invalid arguments: " + strings.Join(parts, ", ")
}

// fieldPath 去掉命名空间中的结构体名前缀
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
