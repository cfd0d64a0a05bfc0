package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketJSONSeatNumbers(t *testing.T) {
	ticket := Ticket{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		EventID: uuid.New(),
		Seats: []SeatAssignment{
			{SeatNumber: 5},
			{SeatNumber: 6},
		},
	}

	raw, err := json.Marshal(ticket)
	require.NoError(t, err)

	var decoded struct {
		SelectedSeats []int `json:"selected_seats"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, []int{5, 6}, decoded.SelectedSeats)
	assert.NotContains(t, string(raw), "seat_number")
}
