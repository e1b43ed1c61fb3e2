package dto

import (
	"time"

	"skybook/internal/domains/booking/model"
	"skybook/internal/domains/booking/seat"
	"skybook/shared"
	"skybook/shared/constant"
	gDto "skybook/shared/dto"
	gModel "skybook/shared/model"
	"skybook/shared/timezone"

	"github.com/google/uuid"
)

type Passenger struct {
	FirstName string  `json:"first_name" validate:"required,max=50"`
	LastName  string  `json:"last_name"  validate:"required,max=50"`
	Email     string  `json:"email"      validate:"required,email,max=120"`
	Phone     *string `json:"phone"      validate:"omitempty,max=20,phone"`
}

type CreateBookingRequest struct {
	FlightID        string    `json:"flight_id"        validate:"required,uuid"`
	Passenger       Passenger `json:"passenger"        validate:"required"`
	SeatClass       string    `json:"seat_class"       validate:"required,oneof=economy business first"`
	BaggageCount    *int      `json:"baggage_count"    validate:"omitempty,min=0,max=5"`
	MealPreference  *string   `json:"meal_preference"  validate:"omitempty,oneof=vegetarian halal kosher"`
	SpecialRequests *string   `json:"special_requests" validate:"omitempty,max=500"`
}

const defaultBaggageCount = 1

// ToModel builds a confirmed booking. Reference, seat and price are filled in by the caller
// once the flight row is locked.
func (r *CreateBookingRequest) ToModel(userID string, now time.Time) model.Booking {
	baggage := defaultBaggageCount
	if r.BaggageCount != nil {
		baggage = *r.BaggageCount
	}

	return model.Booking{
		ID:                 uuid.NewString(),
		UserID:             userID,
		FlightID:           r.FlightID,
		PassengerFirstName: r.Passenger.FirstName,
		PassengerLastName:  r.Passenger.LastName,
		PassengerEmail:     r.Passenger.Email,
		PassengerPhone:     r.Passenger.Phone,
		SeatClass:          r.SeatClass,
		Status:             model.StatusConfirmed,
		BookedAt:           now,
		BaggageCount:       baggage,
		MealPreference:     r.MealPreference,
		SpecialRequests:    r.SpecialRequests,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  userID,
			ModifiedBy: userID,
		},
	}
}

func (r *CreateBookingRequest) Class() seat.Class {
	return seat.Class(r.SeatClass)
}

type CreateBookingResponse struct {
	ID         string  `json:"id"`
	Reference  string  `json:"reference"`
	SeatNumber string  `json:"seat_number"`
	SeatClass  string  `json:"seat_class"`
	PricePaid  float64 `json:"price_paid"`
	Status     string  `json:"status"`
}

func (r *CreateBookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.Reference = booking.Reference
	r.SeatNumber = booking.Seat()
	r.SeatClass = booking.SeatClass
	r.PricePaid = booking.PricePaid
	r.Status = booking.Status
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type CancelBookingResponse struct {
	Status           string   `json:"status"`
	RefundedAmount   *float64 `json:"refunded_amount,omitempty"`
	AlreadyCancelled bool     `json:"already_cancelled"`
	Message          string   `json:"message"`
}

func (r *CancelBookingResponse) FromCancellation(result model.Cancellation) {
	r.Status = result.Status

	if result.Status == model.StatusRefunded {
		amount := result.RefundedAmount
		r.RefundedAmount = &amount
		r.Message = "booking cancelled, the fare will be refunded"

		return
	}

	r.Message = "booking cancelled without refund"
}

func AlreadyCancelled(status string) CancelBookingResponse {
	return CancelBookingResponse{
		Status:           status,
		AlreadyCancelled: true,
		Message:          "booking is already cancelled",
	}
}

type BookingResponse struct {
	ID                 string  `json:"id"`
	Reference          string  `json:"reference"`
	UserID             string  `json:"user_id"`
	FlightID           string  `json:"flight_id"`
	FlightNumber       string  `json:"flight_number"`
	DepartureCity      string  `json:"departure_city"`
	ArrivalCity        string  `json:"arrival_city"`
	DepartureTime      string  `json:"departure_time"`
	ArrivalTime        string  `json:"arrival_time"`
	PassengerFirstName string  `json:"passenger_first_name"`
	PassengerLastName  string  `json:"passenger_last_name"`
	PassengerEmail     string  `json:"passenger_email"`
	PassengerPhone     *string `json:"passenger_phone,omitempty"`
	SeatClass          string  `json:"seat_class"`
	SeatNumber         string  `json:"seat_number"`
	PricePaid          float64 `json:"price_paid"`
	Status             string  `json:"status"`
	BookedAt           string  `json:"booked_at"`
	CancelledAt        *string `json:"cancelled_at,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
	BaggageCount       int     `json:"baggage_count"`
	MealPreference     *string `json:"meal_preference,omitempty"`
	SpecialRequests    *string `json:"special_requests,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.Reference = booking.Reference
	r.UserID = booking.UserID
	r.FlightID = booking.FlightID
	r.FlightNumber = booking.FlightNumber
	r.DepartureCity = booking.DepartureCity
	r.ArrivalCity = booking.ArrivalCity
	r.DepartureTime = timezone.Format(booking.DepartureTime, constant.DateFormat)
	r.ArrivalTime = timezone.Format(booking.ArrivalTime, constant.DateFormat)
	r.PassengerFirstName = booking.PassengerFirstName
	r.PassengerLastName = booking.PassengerLastName
	r.PassengerEmail = booking.PassengerEmail
	r.PassengerPhone = booking.PassengerPhone
	r.SeatClass = booking.SeatClass
	r.SeatNumber = booking.Seat()
	r.PricePaid = booking.PricePaid
	r.Status = booking.Status
	r.BookedAt = timezone.Format(booking.BookedAt, constant.DateFormat)
	r.CancellationReason = booking.CancellationReason
	r.BaggageCount = booking.BaggageCount
	r.MealPreference = booking.MealPreference
	r.SpecialRequests = booking.SpecialRequests

	if booking.CancelledAt != nil {
		cancelledAt := timezone.Format(*booking.CancelledAt, constant.DateFormat)
		r.CancelledAt = &cancelledAt
	}

	r.Metadata.FromModel(booking.Metadata)
}

// BookingDetailResponse adds the cancellation terms as of the time of the request.
type BookingDetailResponse struct {
	BookingResponse
	CanBeCancelled          bool    `json:"can_be_cancelled"`
	CanBeRefunded           bool    `json:"can_be_refunded"`
	CancellationType        string  `json:"cancellation_type"`
	TimeUntilDepartureHours float64 `json:"time_until_departure_hours"`
}

func (r *BookingDetailResponse) FromModel(booking model.Booking, now time.Time, cutoff time.Duration) {
	r.BookingResponse.FromModel(booking)
	r.CanBeCancelled = booking.CanBeCancelled()
	r.CanBeRefunded = booking.CanBeRefunded(now, cutoff)
	r.CancellationType = booking.CancellationType(now, cutoff)
	r.TimeUntilDepartureHours = booking.HoursUntilDeparture(now)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type AssignSeatsResponse struct {
	Pending  int `json:"pending"`
	Assigned int `json:"assigned"`
	Failed   int `json:"failed"`
}
