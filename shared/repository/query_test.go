package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"skybook/infras/otel/mocks"
	"skybook/shared/dto"
)

type audit struct {
	CreatedAt time.Time `db:"created_at"`
	CreatedBy string    `db:"created_by"`
}

type ticket struct {
	ID           string  `db:"id"`
	FlightID     string  `db:"flight_id"`
	Price        float64 `db:"price"`
	Ignored      string  `db:"-"`
	Note         string
	FlightNumber string `column:"flight_number" db:"flight_number" table:"f"`
	audit
}

func (ticket) GetJoinQuery() string {
	return "JOIN flights f ON f.id = tickets.flight_id"
}

type plain struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

func newTicketRepo() Repository[ticket] {
	return NewRepository[ticket]("ticket", "tickets", "id", nil, mocks.NewOtel())
}

func TestNewRepository_Columns(t *testing.T) {
	repo := newTicketRepo()

	assert.Equal(t, []string{"id", "flight_id", "price", "created_at", "created_by"}, repo.InsertColumns)
	assert.Equal(t,
		"tickets.id, tickets.flight_id, tickets.price, f.flight_number AS flight_number, tickets.created_at, tickets.created_by",
		repo.selectList())
	assert.Equal(t, "JOIN flights f ON f.id = tickets.flight_id", repo.join)

	bare := NewRepository[plain]("plain", "plains", "id", nil, mocks.NewOtel())
	assert.Empty(t, bare.join)
	assert.Equal(t, "plains.id, plains.name", bare.selectList())
}

func TestRepository_Queries(t *testing.T) {
	repo := newTicketRepo()

	where, args := whereClause(dto.FilterGroup{Filters: []any{
		dto.Filter{Field: "flight_id", Value: "fl-1", Operator: dto.FilterOperatorEq, Table: "tickets"},
	}})

	assert.Equal(t, "WHERE (tickets.flight_id = :flight_id)", where)
	assert.Equal(t, map[string]any{"flight_id": "fl-1"}, args)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "insert",
			query: repo.insertQuery(),
			want:  "INSERT INTO tickets (id, flight_id, price, created_at, created_by) VALUES (:id, :flight_id, :price, :created_at, :created_by)",
		},
		{
			name:  "get with selected columns",
			query: repo.getQuery(where, false, "id", "price"),
			want:  "SELECT tickets.id, tickets.price FROM tickets JOIN flights f ON f.id = tickets.flight_id WHERE (tickets.flight_id = :flight_id)",
		},
		{
			name:  "get for update",
			query: repo.getQuery(where, true, "id"),
			want:  "SELECT tickets.id FROM tickets JOIN flights f ON f.id = tickets.flight_id WHERE (tickets.flight_id = :flight_id) FOR UPDATE OF tickets",
		},
		{
			name:  "count",
			query: repo.countQuery(where),
			want:  "SELECT COUNT(tickets.id) FROM tickets JOIN flights f ON f.id = tickets.flight_id WHERE (tickets.flight_id = :flight_id)",
		},
		{
			name:  "exist",
			query: repo.existQuery(where),
			want:  "SELECT EXISTS(SELECT 1 FROM tickets WHERE (tickets.flight_id = :flight_id))",
		},
		{
			name:  "update sorts the fields",
			query: repo.updateQuery(map[string]any{"price": 10.5, "created_by": "u-1"}, where),
			want:  "UPDATE tickets SET created_by = :created_by, price = :price WHERE (tickets.flight_id = :flight_id)",
		},
		{
			name:  "delete",
			query: repo.deleteQuery(where),
			want:  "DELETE FROM tickets WHERE (tickets.flight_id = :flight_id)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query)
		})
	}
}

func TestRepository_ListQuery(t *testing.T) {
	repo := NewRepository[plain]("plain", "plains", "id", nil, mocks.NewOtel())

	tests := []struct {
		name     string
		params   dto.QueryParams
		want     string
		wantArgs map[string]any
	}{
		{
			name:     "no paging",
			params:   dto.QueryParams{},
			want:     "SELECT plains.id, plains.name FROM plains",
			wantArgs: map[string]any{},
		},
		{
			name:     "third page sorted",
			params:   dto.QueryParams{Page: 3, Limit: 20, SortBy: "name", SortDir: dto.SortDirAsc},
			want:     "SELECT plains.id, plains.name FROM plains ORDER BY name ASC LIMIT :limit OFFSET :offset",
			wantArgs: map[string]any{"limit": 20, "offset": 40},
		},
		{
			name:     "limit only",
			params:   dto.QueryParams{Limit: 3},
			want:     "SELECT plains.id, plains.name FROM plains LIMIT :limit",
			wantArgs: map[string]any{"limit": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]any{}

			assert.Equal(t, tt.want, repo.listQuery("", args, tt.params))
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestWhereClause_Empty(t *testing.T) {
	where, args := whereClause(dto.FilterGroup{})

	assert.Empty(t, where)
	assert.Empty(t, args)
}
