package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ashwinyue/travel-planner/internal/apierr"
	"github.com/ashwinyue/travel-planner/internal/config"
	"github.com/ashwinyue/travel-planner/internal/handler"
	"github.com/ashwinyue/travel-planner/internal/logger"
	"github.com/ashwinyue/travel-planner/internal/model"
	"github.com/ashwinyue/travel-planner/internal/service/auth"
	"github.com/ashwinyue/travel-planner/internal/service/booking"
	"github.com/ashwinyue/travel-planner/internal/service/chat"
	"github.com/ashwinyue/travel-planner/internal/service/hotel"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// tokenVerifier 令牌即主体
type tokenVerifier struct{}

func (tokenVerifier) Verify(_ context.Context, token string) (*auth.Claims, error) {
	if token == "bad" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: token}}, nil
}

type fakeChat struct {
	lastSubject string
	lastReq     *chat.Request
	listedUser  string
}

func (f *fakeChat) Chat(_ context.Context, subject string, req *chat.Request) (string, error) {
	f.lastSubject, f.lastReq = subject, req
	if strings.TrimSpace(req.Message) == "" {
		return "", chat.ErrEmptyMessage
	}
	return "answer to " + req.Message, nil
}

func (f *fakeChat) ListSessions(_ context.Context, userID string) ([]model.SessionSummary, error) {
	f.listedUser = userID
	return []model.SessionSummary{}, nil
}

func (f *fakeChat) ResolveUserID(subject, requested string) string {
	if subject != "" {
		return subject
	}
	if requested != "" {
		return requested
	}
	return "guest"
}

type fakeBookings struct {
	bookings map[string]*model.Booking
}

func (f *fakeBookings) Create(_ context.Context, userID string, req *model.BookingRequest) (*model.BookingResult, error) {
	b := &model.Booking{BookingID: "BK00000001", UserID: userID, HotelID: req.HotelID, BookingStatus: model.BookingStatusConfirmed}
	f.bookings[b.BookingID] = b
	return &model.BookingResult{BookingID: b.BookingID, Message: "Booking confirmed successfully", BookingDetails: b}, nil
}

func (f *fakeBookings) List(_ context.Context, userID string) ([]*model.Booking, error) {
	out := []*model.Booking{}
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) Get(_ context.Context, userID, id string) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok || b.UserID != userID {
		return nil, booking.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookings) Cancel(ctx context.Context, userID, id string) (*model.Booking, error) {
	b, err := f.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	b.BookingStatus = model.BookingStatusCancelled
	return b, nil
}

type fakeHotels struct {
	search hotel.SearchParams
	avail  hotel.AvailabilityParams
}

func (f *fakeHotels) Search(_ context.Context, p hotel.SearchParams) (*hotel.SearchResult, error) {
	f.search = p
	return &hotel.SearchResult{Hotels: []hotel.Hotel{}}, nil
}

func (f *fakeHotels) Details(_ context.Context, p hotel.DetailsParams) (*hotel.Details, error) {
	if p.HotelID == "missing" {
		return nil, hotel.ErrHotelNotFound
	}
	return &hotel.Details{}, nil
}

func (f *fakeHotels) Availability(_ context.Context, p hotel.AvailabilityParams) (*hotel.Availability, error) {
	f.avail = p
	return &hotel.Availability{HotelID: p.HotelID}, nil
}

type fakeProfiles struct{}

func (fakeProfiles) Get(_ context.Context, userID string) (*model.UserProfile, error) {
	return &model.UserProfile{UserID: userID, Interests: []string{}}, nil
}

func (fakeProfiles) Upsert(_ context.Context, userID string, username *string) (*model.UserProfile, error) {
	return &model.UserProfile{UserID: userID, Username: username, Interests: []string{}}, nil
}

func (fakeProfiles) UpdateInterests(_ context.Context, userID string, interests []string) (*model.UserProfile, error) {
	return &model.UserProfile{UserID: userID, Interests: interests}, nil
}

type testEnv struct {
	engine   *gin.Engine
	chat     *fakeChat
	bookings *fakeBookings
	hotels   *fakeHotels
}

func newTestEnv() *testEnv {
	env := &testEnv{
		chat:     &fakeChat{},
		bookings: &fakeBookings{bookings: map[string]*model.Booking{}},
		hotels:   &fakeHotels{},
	}
	h := &handler.Handlers{
		Chat:    handler.NewChatHandler(env.chat),
		Booking: handler.NewBookingHandler(env.bookings),
		Hotel:   handler.NewHotelHandler(env.hotels),
		Profile: handler.NewProfileHandler(fakeProfiles{}),
		System:  handler.NewSystemHandler(),
	}
	env.engine = SetupRouter(h, Options{
		ServiceName: "travel-planner-test",
		CORS:        config.CORSConfig{AllowOrigins: []string{"http://localhost:3001"}},
		Verifier:    tokenVerifier{},
		Logger:      logger.Nop(),
	})
	return env
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierr.Response {
	t.Helper()
	var body apierr.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, w.Body.String())
	}
	return body
}

func TestHealth(t *testing.T) {
	env := newTestEnv()
	if w := env.do(http.MethodGet, "/health", "", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("/health = %d %s", w.Code, w.Body.String())
	}
	if w := env.do(http.MethodGet, "/healthcheck", "", ""); w.Body.String() != "true" {
		t.Errorf("/healthcheck = %s", w.Body.String())
	}
}

func TestChatRoutes(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodPost, "/travelPlanner/chat", "", `{"message":"hi","userId":"body-user"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp handler.ChatResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Message != "answer to hi" {
		t.Errorf("message = %q", resp.Message)
	}
	if env.chat.lastSubject != "" || env.chat.lastReq.UserID != "body-user" {
		t.Errorf("anonymous chat passed subject %q", env.chat.lastSubject)
	}

	env.do(http.MethodPost, "/travelPlanner/chat", "token-user", `{"message":"hi"}`)
	if env.chat.lastSubject != "token-user" {
		t.Errorf("subject = %q", env.chat.lastSubject)
	}

	if w := env.do(http.MethodPost, "/travelPlanner/chat", "", `{"message":""}`); w.Code != http.StatusBadRequest {
		t.Errorf("empty message status = %d", w.Code)
	}
	if w := env.do(http.MethodPost, "/travelPlanner/chat", "bad", `{"message":"hi"}`); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d", w.Code)
	}

	env.do(http.MethodGet, "/travelPlanner/chat/sessions?userId=q-user", "token-user", "")
	if env.chat.listedUser != "token-user" {
		t.Errorf("listed user = %q, want token subject", env.chat.listedUser)
	}
	env.do(http.MethodGet, "/travelPlanner/chat/sessions?userId=q-user", "", "")
	if env.chat.listedUser != "q-user" {
		t.Errorf("listed user = %q, want query user", env.chat.listedUser)
	}
}

func TestBookingRoutes(t *testing.T) {
	env := newTestEnv()

	if w := env.do(http.MethodGet, "/bookings", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d", w.Code)
	} else if body := decodeError(t, w); body.Message != "Missing bearer token." {
		t.Errorf("message = %q", body.Message)
	}

	w := env.do(http.MethodPost, "/bookings", "u1", `{"hotelId":"h1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}

	if w := env.do(http.MethodGet, "/bookings/BK00000001", "u2", ""); w.Code != http.StatusNotFound {
		t.Errorf("other user status = %d", w.Code)
	} else if body := decodeError(t, w); body.ErrorCode != "BOOKING_NOT_FOUND" {
		t.Errorf("errorCode = %s", body.ErrorCode)
	}

	w = env.do(http.MethodPut, "/bookings/BK00000001/cancel", "u1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("cancel status = %d", w.Code)
	}
	var cancel handler.CancelResponse
	_ = json.Unmarshal(w.Body.Bytes(), &cancel)
	if cancel.Message != "Booking cancelled successfully" || cancel.BookingDetails.BookingStatus != model.BookingStatusCancelled {
		t.Errorf("cancel = %+v", cancel)
	}

	if w := env.do(http.MethodPost, "/bookings", "u1", `{not json`); w.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d", w.Code)
	}
}

func TestHotelRoutes(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodGet, "/hotels/search?destination=Paris&amenities=wifi&amenities=pool&minPrice=50&page=2", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d", w.Code)
	}
	p := env.hotels.search
	if p.Destination != "Paris" || p.Guests != 2 || p.Rooms != 1 || p.Page != 2 || p.PageSize != 10 {
		t.Errorf("search params = %+v", p)
	}
	if len(p.Amenities) != 2 || p.MinPrice == nil || *p.MinPrice != 50 || p.MaxPrice != nil {
		t.Errorf("search filters = %+v", p)
	}

	if w := env.do(http.MethodGet, "/hotels/search?guests=two", "", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad guests status = %d", w.Code)
	}
	for _, q := range []string{"pageSize=51", "pageSize=0", "page=0", "page=4611686018427387904"} {
		if w := env.do(http.MethodGet, "/hotels/search?destination=Paris&"+q, "", ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", q, w.Code)
		}
	}
	if w := env.do(http.MethodGet, "/hotels/search?destination=Paris&pageSize=50", "", ""); w.Code != http.StatusOK || env.hotels.search.PageSize != 50 {
		t.Errorf("pageSize=50 status = %d, params = %+v", w.Code, env.hotels.search)
	}
	if w := env.do(http.MethodGet, "/hotels/missing", "", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing hotel status = %d", w.Code)
	}
	if w := env.do(http.MethodGet, "/hotels/h1/availability?checkInDate=2025-05-01", "", ""); w.Code != http.StatusBadRequest {
		t.Errorf("missing checkout status = %d", w.Code)
	}

	w = env.do(http.MethodGet, "/hotels/h1/availability?checkInDate=2025-05-01&checkOutDate=2025-05-03&roomCount=2", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("availability status = %d", w.Code)
	}
	if a := env.hotels.avail; a.HotelID != "h1" || a.RoomCount != 2 || a.Guests != 2 {
		t.Errorf("availability params = %+v", a)
	}
}

func TestProfileRoutes(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       string
		wantStatus int
	}{
		{"get own", http.MethodGet, "/users/u1", "u1", "", http.StatusOK},
		{"get other", http.MethodGet, "/users/u2", "u1", "", http.StatusForbidden},
		{"get anonymous", http.MethodGet, "/users/u1", "", "", http.StatusUnauthorized},
		{"upsert own", http.MethodPost, "/users", "u1", `{"userId":"u1","username":"Ann"}`, http.StatusOK},
		{"upsert other", http.MethodPost, "/users", "u1", `{"userId":"u2"}`, http.StatusForbidden},
		{"upsert missing id", http.MethodPost, "/users", "u1", `{}`, http.StatusBadRequest},
		{"interests", http.MethodPut, "/users/u1/interests", "u1", `{"interests":["art"]}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(tt.method, tt.path, tt.token, tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == http.StatusForbidden {
				if body := decodeError(t, w); body.Message != "Token subject does not match requested user." {
					t.Errorf("message = %q", body.Message)
				}
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv()
	req := httptest.NewRequest(http.MethodOptions, "/bookings", nil)
	req.Header.Set("Origin", "http://localhost:3001")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3001" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
