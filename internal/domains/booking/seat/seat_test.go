package seat_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"skybook/config"
	"skybook/internal/domains/booking/seat"
)

func newAllocator() *seat.Allocator {
	cfg := &config.Config{}
	cfg.Booking.MaxSeatCap = 200
	cfg.Booking.BandScanRows = 50
	cfg.Booking.FallbackAttempts = 5

	return seat.NewAllocator(cfg)
}

func fillRows(occupied seat.Occupied, firstRow, lastRow int, letters string) {
	for row := firstRow; row <= lastRow; row++ {
		for _, letter := range letters {
			occupied.Add(fmt.Sprintf("%d%c", row, letter))
		}
	}
}

func TestAllocator_Layout(t *testing.T) {
	allocator := newAllocator()

	tests := []struct {
		name       string
		totalSeats int
		want       seat.Layout
	}{
		{
			name:       "mid size aircraft",
			totalSeats: 180,
			want: seat.Layout{
				Rows:     180,
				Economy:  seat.Band{FirstRow: 1, LastRow: 144, SeatsPerRow: 6},
				Business: seat.Band{FirstRow: 145, LastRow: 171, SeatsPerRow: 4},
				First:    seat.Band{FirstRow: 172, LastRow: 180, SeatsPerRow: 2},
			},
		},
		{
			name:       "capped at two hundred rows",
			totalSeats: 400,
			want: seat.Layout{
				Rows:     200,
				Economy:  seat.Band{FirstRow: 1, LastRow: 160, SeatsPerRow: 6},
				Business: seat.Band{FirstRow: 161, LastRow: 190, SeatsPerRow: 4},
				First:    seat.Band{FirstRow: 191, LastRow: 200, SeatsPerRow: 2},
			},
		},
		{
			name:       "small aircraft",
			totalSeats: 10,
			want: seat.Layout{
				Rows:     10,
				Economy:  seat.Band{FirstRow: 1, LastRow: 8, SeatsPerRow: 6},
				Business: seat.Band{FirstRow: 9, LastRow: 9, SeatsPerRow: 4},
				First:    seat.Band{FirstRow: 10, LastRow: 10, SeatsPerRow: 2},
			},
		},
		{
			name:       "no seats",
			totalSeats: 0,
			want: seat.Layout{
				Rows:     0,
				Economy:  seat.Band{FirstRow: 1, LastRow: 0, SeatsPerRow: 6},
				Business: seat.Band{FirstRow: 1, LastRow: 0, SeatsPerRow: 4},
				First:    seat.Band{FirstRow: 1, LastRow: 0, SeatsPerRow: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, allocator.Layout(tt.totalSeats))
		})
	}
}

func TestAllocator_Allocate(t *testing.T) {
	tests := []struct {
		name       string
		totalSeats int
		class      seat.Class
		occupied   func() seat.Occupied
		rand       func(n int) int
		want       string
		wantErr    error
	}{
		{
			name:       "first economy seat",
			totalSeats: 180,
			class:      seat.ClassEconomy,
			occupied:   func() seat.Occupied { return seat.NewOccupied() },
			want:       "1A",
		},
		{
			name:       "skips occupied letters",
			totalSeats: 180,
			class:      seat.ClassEconomy,
			occupied:   func() seat.Occupied { return seat.NewOccupied("1A", "1B", "", "1D") },
			want:       "1C",
		},
		{
			name:       "business starts after economy rows",
			totalSeats: 180,
			class:      seat.ClassBusiness,
			occupied:   func() seat.Occupied { return seat.NewOccupied("1A") },
			want:       "145A",
		},
		{
			name:       "business row holds four seats",
			totalSeats: 180,
			class:      seat.ClassBusiness,
			occupied:   func() seat.Occupied { return seat.NewOccupied("145A", "145B", "145C", "145D") },
			want:       "146A",
		},
		{
			name:       "first row holds two seats",
			totalSeats: 180,
			class:      seat.ClassFirst,
			occupied:   func() seat.Occupied { return seat.NewOccupied("172A", "172B") },
			want:       "173A",
		},
		{
			name:       "economy scan stops after fifty rows then scans the cabin",
			totalSeats: 200,
			class:      seat.ClassEconomy,
			occupied: func() seat.Occupied {
				occupied := seat.NewOccupied()
				fillRows(occupied, 1, 50, "ABCDEF")

				return occupied
			},
			want: "51A",
		},
		{
			name:       "full business band on small aircraft falls back to cabin scan",
			totalSeats: 10,
			class:      seat.ClassBusiness,
			occupied:   func() seat.Occupied { return seat.NewOccupied("9A", "9B", "9C", "9D") },
			want:       "1A",
		},
		{
			name:       "full first band falls back to first free cabin seat",
			totalSeats: 10,
			class:      seat.ClassFirst,
			occupied:   func() seat.Occupied { return seat.NewOccupied("10A", "10B", "1A") },
			want:       "1B",
		},
		{
			name:       "cabin scan uses six letters in every row",
			totalSeats: 10,
			class:      seat.ClassFirst,
			occupied: func() seat.Occupied {
				occupied := seat.NewOccupied()
				fillRows(occupied, 1, 9, "ABCDEF")
				occupied.Add("10A")
				occupied.Add("10B")

				return occupied
			},
			want: "10C",
		},
		{
			name:       "reserve label when the cabin is full",
			totalSeats: 1,
			class:      seat.ClassEconomy,
			occupied: func() seat.Occupied {
				occupied := seat.NewOccupied()
				fillRows(occupied, 1, 1, "ABCDEF")

				return occupied
			},
			rand: func(int) int { return 42 },
			want: "R142",
		},
		{
			name:       "reserve label skips taken reserve labels",
			totalSeats: 0,
			class:      seat.ClassEconomy,
			occupied:   func() seat.Occupied { return seat.NewOccupied("R100") },
			rand: func() func(int) int {
				calls := 0

				return func(int) int {
					calls++
					if calls == 1 {
						return 0
					}

					return 899
				}
			}(),
			want: "R999",
		},
		{
			name:       "exhausted reserve attempts",
			totalSeats: 0,
			class:      seat.ClassFirst,
			occupied:   func() seat.Occupied { return seat.NewOccupied("R100") },
			rand:       func(int) int { return 0 },
			wantErr:    seat.ErrAllocationExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocator := newAllocator()
			if tt.rand != nil {
				allocator.WithRand(tt.rand)
			}

			got, err := allocator.Allocate(tt.totalSeats, tt.class, tt.occupied())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllocator_Allocate_SequentialSeatsAreDistinct(t *testing.T) {
	allocator := newAllocator()

	for _, class := range []seat.Class{seat.ClassEconomy, seat.ClassBusiness, seat.ClassFirst} {
		t.Run(string(class), func(t *testing.T) {
			layout := allocator.Layout(180)
			band := layout.Band(class)
			capacity := (band.LastRow - band.FirstRow + 1) * band.SeatsPerRow
			occupied := seat.NewOccupied()

			for range capacity {
				label, err := allocator.Allocate(180, class, occupied)
				assert.NoError(t, err)
				assert.False(t, occupied.Has(label), "label %s handed out twice", label)

				got, ok := layout.ClassOf(label)
				assert.True(t, ok)
				assert.Equal(t, class, got)

				occupied.Add(label)
			}

			assert.Len(t, occupied, capacity)
		})
	}
}

func TestLayout_ClassOf(t *testing.T) {
	layout := newAllocator().Layout(180)

	tests := []struct {
		label  string
		want   seat.Class
		wantOK bool
	}{
		{label: "1A", want: seat.ClassEconomy, wantOK: true},
		{label: "144F", want: seat.ClassEconomy, wantOK: true},
		{label: "145D", want: seat.ClassBusiness, wantOK: true},
		{label: "145E", wantOK: false},
		{label: "180B", want: seat.ClassFirst, wantOK: true},
		{label: "180C", wantOK: false},
		{label: "181A", wantOK: false},
		{label: "R512", wantOK: false},
		{label: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := layout.ClassOf(tt.label)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClass_Valid(t *testing.T) {
	assert.True(t, seat.ClassEconomy.Valid())
	assert.True(t, seat.ClassBusiness.Valid())
	assert.True(t, seat.ClassFirst.Valid())
	assert.False(t, seat.Class("premium").Valid())
}
