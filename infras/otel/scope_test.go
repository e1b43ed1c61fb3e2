package otel

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

type seatLabel struct{ row int }

func (s seatLabel) String() string { return "row-" + string(rune('0'+s.row)) }

func TestToAttribute(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  attribute.Value
	}{
		{name: "bool", value: true, want: attribute.BoolValue(true)},
		{name: "string", value: "economy", want: attribute.StringValue("economy")},
		{name: "int", value: 180, want: attribute.IntValue(180)},
		{name: "int64", value: int64(7), want: attribute.Int64Value(7)},
		{name: "float", value: 149.5, want: attribute.Float64Value(149.5)},
		{name: "strings", value: []string{"admin", "manager"}, want: attribute.StringSliceValue([]string{"admin", "manager"})},
		{name: "duration", value: 90 * time.Second, want: attribute.StringValue("1m30s")},
		{name: "stringer", value: seatLabel{row: 4}, want: attribute.StringValue("row-4")},
		{name: "error", value: errors.New("boom"), want: attribute.StringValue("boom")},
		{name: "other", value: []int{1, 2}, want: attribute.StringValue("[1 2]")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := toAttribute("k", tt.value)

			assert.Equal(t, attribute.Key("k"), kv.Key)
			assert.Equal(t, tt.want, kv.Value)
		})
	}
}
