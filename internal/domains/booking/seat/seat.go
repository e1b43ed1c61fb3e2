// Package seat assigns seat labels on a flight.
//
// A flight's cabin is split into three bands of rows computed from its seat count:
// economy takes the first 80% of rows with letters A-F, business the next 15% with A-D and
// first the remainder with A-B. Labels are "<row><letter>", e.g. "12C". When the requested
// band is full the whole cabin is scanned with letters A-F and, as a last resort, a reserve
// label "R<100-999>" is issued.
package seat

import (
	"errors"
	"math/rand/v2"
	"strconv"

	"skybook/config"
)

var ErrAllocationExhausted = errors.New("no seat label could be allocated")

type Class string

const (
	ClassEconomy  Class = "economy"
	ClassBusiness Class = "business"
	ClassFirst    Class = "first"
)

func (c Class) Valid() bool {
	switch c {
	case ClassEconomy, ClassBusiness, ClassFirst:
		return true
	default:
		return false
	}
}

const (
	letters = "ABCDEF"

	economyPercent  = 80
	businessPercent = 95

	reservePrefix = "R"
	reserveMin    = 100
	reserveMax    = 999
)

// Band is an inclusive row range. FirstRow > LastRow means the band is empty.
type Band struct {
	FirstRow    int
	LastRow     int
	SeatsPerRow int
}

func (b Band) Empty() bool {
	return b.FirstRow > b.LastRow
}

// Layout is derived from the flight's seat count on every call and never stored.
type Layout struct {
	Rows     int
	Economy  Band
	Business Band
	First    Band
}

func (l Layout) Band(class Class) Band {
	switch class {
	case ClassBusiness:
		return l.Business
	case ClassFirst:
		return l.First
	default:
		return l.Economy
	}
}

// ClassOf reports which band a label falls into. Reserve labels and labels outside every band
// report false.
func (l Layout) ClassOf(label string) (Class, bool) {
	row, letter, ok := Parse(label)
	if !ok {
		return "", false
	}

	for _, class := range []Class{ClassEconomy, ClassBusiness, ClassFirst} {
		band := l.Band(class)
		if row >= band.FirstRow && row <= band.LastRow && int(letter-'A') < band.SeatsPerRow {
			return class, true
		}
	}

	return "", false
}

// Occupied is the set of labels already held on one flight, across every class.
type Occupied map[string]struct{}

func NewOccupied(labels ...string) Occupied {
	occupied := make(Occupied, len(labels))
	for _, label := range labels {
		occupied.Add(label)
	}

	return occupied
}

func (o Occupied) Add(label string) {
	if label == "" {
		return
	}

	o[label] = struct{}{}
}

func (o Occupied) Has(label string) bool {
	_, ok := o[label]

	return ok
}

type Allocator struct {
	maxRows          int
	scanRows         int
	fallbackAttempts int
	intN             func(n int) int
}

func NewAllocator(cfg *config.Config) *Allocator {
	return &Allocator{
		maxRows:          cfg.Booking.MaxSeatCap,
		scanRows:         cfg.Booking.BandScanRows,
		fallbackAttempts: cfg.Booking.FallbackAttempts,
		intN:             rand.IntN,
	}
}

// WithRand replaces the random source used for reserve labels.
func (a *Allocator) WithRand(intN func(n int) int) *Allocator {
	a.intN = intN

	return a
}

func (a *Allocator) Layout(totalSeats int) Layout {
	rows := max(min(totalSeats, a.maxRows), 0)
	economyEnd := rows * economyPercent / 100
	businessEnd := rows * businessPercent / 100

	return Layout{
		Rows:     rows,
		Economy:  Band{FirstRow: 1, LastRow: economyEnd, SeatsPerRow: 6},
		Business: Band{FirstRow: economyEnd + 1, LastRow: businessEnd, SeatsPerRow: 4},
		First:    Band{FirstRow: businessEnd + 1, LastRow: rows, SeatsPerRow: 2},
	}
}

// Allocate picks the first free label for class. It does not mutate occupied; the caller
// persists the label and adds it to the set before allocating again.
func (a *Allocator) Allocate(totalSeats int, class Class, occupied Occupied) (string, error) {
	layout := a.Layout(totalSeats)
	band := layout.Band(class)

	lastScanned := min(band.LastRow, band.FirstRow+a.scanRows-1)
	if label, ok := scan(band.FirstRow, lastScanned, band.SeatsPerRow, occupied); ok {
		return label, nil
	}

	if label, ok := scan(1, layout.Rows, len(letters), occupied); ok {
		return label, nil
	}

	for range a.fallbackAttempts {
		label := reservePrefix + strconv.Itoa(reserveMin+a.intN(reserveMax-reserveMin+1))
		if !occupied.Has(label) {
			return label, nil
		}
	}

	return "", ErrAllocationExhausted
}

func scan(firstRow, lastRow, seatsPerRow int, occupied Occupied) (string, bool) {
	for row := firstRow; row <= lastRow; row++ {
		prefix := strconv.Itoa(row)

		for _, letter := range letters[:seatsPerRow] {
			label := prefix + string(letter)
			if !occupied.Has(label) {
				return label, true
			}
		}
	}

	return "", false
}

// Parse splits a regular label into its row and letter.
func Parse(label string) (row int, letter byte, ok bool) {
	if len(label) < 2 {
		return 0, 0, false
	}

	letter = label[len(label)-1]
	if letter < 'A' || letter > 'F' {
		return 0, 0, false
	}

	row, err := strconv.Atoi(label[:len(label)-1])
	if err != nil || row < 1 {
		return 0, 0, false
	}

	return row, letter, true
}
