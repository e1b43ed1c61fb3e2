package dto

import (
	"math"
	"net/http"
	"strconv"
	"time"

	bookingModel "skybook/internal/domains/booking/model"
	bookingDto "skybook/internal/domains/booking/model/dto"
	"skybook/internal/domains/booking/seat"
	"skybook/internal/domains/flight/model"
	"skybook/shared"
	"skybook/shared/constant"
	gDto "skybook/shared/dto"
	gModel "skybook/shared/model"
	"skybook/shared/timezone"

	"github.com/google/uuid"
)

const (
	DefaultTotalSeats = 180
	DateLayout        = "2006-01-02"
)

type CreateFlightRequest struct {
	FlightNumber       string    `json:"flight_number"        validate:"required,max=10"`
	AirlineID          string    `json:"airline_id"           validate:"omitempty,uuid"`
	DepartureAirportID string    `json:"departure_airport_id" validate:"required,uuid"`
	ArrivalAirportID   string    `json:"arrival_airport_id"   validate:"required,uuid,nefield=DepartureAirportID"`
	DepartureTime      time.Time `json:"departure_time"       validate:"required"`
	ArrivalTime        time.Time `json:"arrival_time"         validate:"required,gtfield=DepartureTime"`
	AircraftType       string    `json:"aircraft_type"        validate:"omitempty,max=50"`
	TotalSeats         int       `json:"total_seats"          validate:"omitempty,min=1,max=1000"`
	EconomyPrice       float64   `json:"economy_price"        validate:"required,gt=0"`
	BusinessPrice      *float64  `json:"business_price"       validate:"omitempty,gt=0"`
	FirstPrice         *float64  `json:"first_price"          validate:"omitempty,gt=0"`
}

// ToModel builds a scheduled flight with every seat available.
func (r *CreateFlightRequest) ToModel(airlineID, user string) model.Flight {
	total := r.TotalSeats
	if total == 0 {
		total = DefaultTotalSeats
	}

	now := timezone.Now()

	return model.Flight{
		ID:                 uuid.NewString(),
		FlightNumber:       r.FlightNumber,
		AirlineID:          airlineID,
		DepartureAirportID: r.DepartureAirportID,
		ArrivalAirportID:   r.ArrivalAirportID,
		DepartureTime:      r.DepartureTime,
		ArrivalTime:        r.ArrivalTime,
		AircraftType:       r.AircraftType,
		TotalSeats:         total,
		AvailableSeats:     total,
		EconomyPrice:       r.EconomyPrice,
		BusinessPrice:      r.BusinessPrice,
		FirstPrice:         r.FirstPrice,
		Status:             model.StatusScheduled,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateFlightRequest changes the schedule and fares. A new total seat count is applied together
// with a recount of the active bookings.
type UpdateFlightRequest struct {
	FlightNumber  string    `db:"flight_number"  json:"flight_number"  validate:"omitempty,max=10"`
	DepartureTime time.Time `db:"departure_time" json:"departure_time"`
	ArrivalTime   time.Time `db:"arrival_time"   json:"arrival_time"`
	AircraftType  string    `db:"aircraft_type"  json:"aircraft_type"  validate:"omitempty,max=50"`
	EconomyPrice  float64   `db:"economy_price"  json:"economy_price"  validate:"omitempty,gt=0"`
	BusinessPrice *float64  `db:"business_price" json:"business_price" validate:"omitempty,gt=0"`
	FirstPrice    *float64  `db:"first_price"    json:"first_price"    validate:"omitempty,gt=0"`
	Status        string    `db:"status"         json:"status"         validate:"omitempty,oneof=scheduled delayed cancelled boarding departed arrived completed"`
	TotalSeats    int       `db:"-"              json:"total_seats"    validate:"omitempty,min=1,max=1000"`
}

func (r *UpdateFlightRequest) Empty() bool {
	return r.FlightNumber == "" && r.DepartureTime.IsZero() && r.ArrivalTime.IsZero() && r.AircraftType == "" &&
		r.EconomyPrice == 0 && r.BusinessPrice == nil && r.FirstPrice == nil && r.Status == "" && r.TotalSeats == 0
}

// Schedule merges the requested times over the stored ones.
func (r *UpdateFlightRequest) Schedule(current model.Flight) (departure, arrival time.Time) {
	departure, arrival = current.DepartureTime, current.ArrivalTime

	if !r.DepartureTime.IsZero() {
		departure = r.DepartureTime
	}

	if !r.ArrivalTime.IsZero() {
		arrival = r.ArrivalTime
	}

	return departure, arrival
}

type FlightResponse struct {
	ID                   string  `json:"id"`
	FlightNumber         string  `json:"flight_number"`
	AirlineID            string  `json:"airline_id"`
	AirlineName          string  `json:"airline_name"`
	AirlineCode          string  `json:"airline_code"`
	DepartureAirportID   string  `json:"departure_airport_id"`
	DepartureAirportCode string  `json:"departure_airport_code"`
	DepartureAirportName string  `json:"departure_airport_name"`
	DepartureCity        string  `json:"departure_city"`
	ArrivalAirportID     string  `json:"arrival_airport_id"`
	ArrivalAirportCode   string  `json:"arrival_airport_code"`
	ArrivalAirportName   string  `json:"arrival_airport_name"`
	ArrivalCity          string  `json:"arrival_city"`
	DepartureTime        string  `json:"departure_time"`
	ArrivalTime          string  `json:"arrival_time"`
	DurationMinutes      int     `json:"duration_minutes"`
	AircraftType         string  `json:"aircraft_type"`
	TotalSeats           int     `json:"total_seats"`
	AvailableSeats       int     `json:"available_seats"`
	EconomyPrice         float64 `json:"economy_price"`
	BusinessPrice        float64 `json:"business_price"`
	FirstPrice           float64 `json:"first_price"`
	Status               string  `json:"status"`
	gDto.Metadata
}

func (r *FlightResponse) FromModel(flight model.Flight) {
	r.ID = flight.ID
	r.FlightNumber = flight.FlightNumber
	r.AirlineID = flight.AirlineID
	r.AirlineName = flight.AirlineName
	r.AirlineCode = flight.AirlineCode
	r.DepartureAirportID = flight.DepartureAirportID
	r.DepartureAirportCode = flight.DepartureAirportCode
	r.DepartureAirportName = flight.DepartureAirportName
	r.DepartureCity = flight.DepartureCity
	r.ArrivalAirportID = flight.ArrivalAirportID
	r.ArrivalAirportCode = flight.ArrivalAirportCode
	r.ArrivalAirportName = flight.ArrivalAirportName
	r.ArrivalCity = flight.ArrivalCity
	r.DepartureTime = timezone.Format(flight.DepartureTime, constant.DateFormat)
	r.ArrivalTime = timezone.Format(flight.ArrivalTime, constant.DateFormat)
	r.DurationMinutes = int(flight.Duration().Minutes())
	r.AircraftType = flight.AircraftType
	r.TotalSeats = flight.TotalSeats
	r.AvailableSeats = flight.AvailableSeats
	r.EconomyPrice = flight.Price(seat.ClassEconomy)
	r.BusinessPrice = flight.Price(seat.ClassBusiness)
	r.FirstPrice = flight.Price(seat.ClassFirst)
	r.Status = flight.Status
	r.Metadata.FromModel(flight.Metadata)
}

type GetFlightsResponse struct {
	Flights   []FlightResponse `json:"flights"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetFlightsResponse) FromModels(models []model.Flight, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Flights = make([]FlightResponse, len(models))
	for i, mod := range models {
		r.Flights[i].FromModel(mod)
	}
}

type ClassSummaryResponse struct {
	SeatClass string  `json:"seat_class"`
	Count     int     `json:"count"`
	Revenue   float64 `json:"revenue"`
}

// FlightDetailResponse is the staff view of a flight.
type FlightDetailResponse struct {
	FlightResponse
	OccupancyPercent float64                      `json:"occupancy_percent"`
	Classes          []ClassSummaryResponse       `json:"classes"`
	TotalRevenue     float64                      `json:"total_revenue"`
	RecentBookings   []bookingDto.BookingResponse `json:"recent_bookings"`
}

func (r *FlightDetailResponse) FromModel(flight model.Flight, classes []bookingModel.ClassSummary, recent []bookingModel.Booking) {
	r.FlightResponse.FromModel(flight)
	r.OccupancyPercent = math.Round(flight.OccupancyPercent()*100) / 100

	r.Classes = make([]ClassSummaryResponse, len(classes))
	for i, class := range classes {
		r.Classes[i] = ClassSummaryResponse{SeatClass: class.SeatClass, Count: class.Count, Revenue: class.Revenue}
		r.TotalRevenue += class.Revenue
	}

	r.RecentBookings = make([]bookingDto.BookingResponse, len(recent))
	for i, booking := range recent {
		r.RecentBookings[i].FromModel(booking)
	}
}

// SearchFlightsRequest is read from the query string of the public search endpoint.
type SearchFlightsRequest struct {
	From       string `json:"from"       validate:"omitempty,max=100"`
	To         string `json:"to"         validate:"omitempty,max=100"`
	Date       string `json:"date"       validate:"omitempty,datetime=2006-01-02"`
	Passengers int    `json:"passengers" validate:"omitempty,min=1,max=9"`
}

func (r *SearchFlightsRequest) FromRequest(request *http.Request) {
	query := request.URL.Query()

	r.From = query.Get("from")
	r.To = query.Get("to")
	r.Date = query.Get("date")
	r.Passengers = 1

	if passengers, err := strconv.Atoi(query.Get("passengers")); err == nil && passengers > 0 {
		r.Passengers = passengers
	}
}

// Window returns the departure range to search: the requested day, never earlier than now.
func (r *SearchFlightsRequest) Window(now time.Time) (from, to time.Time, err error) {
	if r.Date == "" {
		return now, time.Time{}, nil
	}

	day, err := timezone.Parse(DateLayout, r.Date)
	if err != nil {
		return from, to, err //nolint:wrapcheck
	}

	from = day
	if now.After(from) {
		from = now
	}

	return from, day.Add(24*time.Hour - time.Microsecond), nil
}

type AdvanceStatusResponse struct {
	Previous string `json:"previous"`
	Status   string `json:"status"`
}

type ReconcileResponse struct {
	FlightID       string `json:"flight_id"`
	TotalSeats     int    `json:"total_seats"`
	ActiveBookings int    `json:"active_bookings"`
	Before         int    `json:"before"`
	After          int    `json:"after"`
}

type CreateAirportRequest struct {
	Code    string `json:"code"    validate:"required,len=3,alpha"`
	Name    string `json:"name"    validate:"required,max=100"`
	City    string `json:"city"    validate:"required,max=50"`
	Country string `json:"country" validate:"required,max=50"`
}

func (r *CreateAirportRequest) ToModel() model.Airport {
	return model.Airport{ID: uuid.NewString(), Code: r.Code, Name: r.Name, City: r.City, Country: r.Country}
}

type AirportResponse struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

func (r *AirportResponse) FromModel(airport model.Airport) {
	r.ID = airport.ID
	r.Code = airport.Code
	r.Name = airport.Name
	r.City = airport.City
	r.Country = airport.Country
}

type CreateAirlineRequest struct {
	Code    string `json:"code"    validate:"required,min=2,max=3,alphanum"`
	Name    string `json:"name"    validate:"required,max=100"`
	Country string `json:"country" validate:"required,max=50"`
}

func (r *CreateAirlineRequest) ToModel() model.Airline {
	return model.Airline{ID: uuid.NewString(), Code: r.Code, Name: r.Name, Country: r.Country}
}

type AirlineResponse struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

func (r *AirlineResponse) FromModel(airline model.Airline) {
	r.ID = airline.ID
	r.Code = airline.Code
	r.Name = airline.Name
	r.Country = airline.Country
}
