package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehub/pkg/circuitbreaker"
)

func card() Card {
	return Card{
		Number:      "4242 4242 4242 4242",
		ExpiryMonth: "04",
		ExpiryYear:  "2030",
		CVV:         "123",
	}
}

func TestSimulatedGatewayAlwaysApproves(t *testing.T) {
	g := NewSimulated(0)
	for i := 0; i < 20; i++ {
		res, err := g.Charge(150.25, card())
		require.NoError(t, err)
		assert.Equal(t, 150.25, res.Amount)
		assert.Equal(t, "completed", res.Status)
		assert.NotEmpty(t, res.TransactionID)
	}
}

func TestSimulatedGatewayAlwaysDeclines(t *testing.T) {
	g := NewSimulated(1)
	_, err := g.Charge(150.25, card())
	assert.ErrorIs(t, err, ErrDeclined)
}

func TestSimulatedGatewayRejectsIncompleteCard(t *testing.T) {
	g := NewSimulated(0)
	_, err := g.Charge(10, Card{Number: "4242"})
	assert.ErrorIs(t, err, ErrDeclined)
}

func TestBreakerShieldsFlappingGateway(t *testing.T) {
	declining := NewSimulated(1)
	g := WithBreaker(declining, circuitbreaker.New(2, time.Minute))

	_, err := g.Charge(10, card())
	assert.ErrorIs(t, err, ErrDeclined)
	_, err = g.Charge(10, card())
	assert.ErrorIs(t, err, ErrDeclined)

	// Breaker is open now: the gateway is no longer called at all.
	_, err = g.Charge(10, card())
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
}
