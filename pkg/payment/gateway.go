// Package payment holds the card-payment collaborator. The real system
// would speak to an acquirer; here the gateway is simulated, declining
// a configurable fraction of charges the way the production stub did.
package payment

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var ErrDeclined = errors.New("payment failed, please try again")

// Card carries the fields collected by the payment form. The gateway
// treats them as opaque beyond presence checks; numbers are never stored.
type Card struct {
	Number         string `json:"cardNumber"`
	ExpiryMonth    string `json:"expiryMonth"`
	ExpiryYear     string `json:"expiryYear"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholderName"`
	BillingAddress string `json:"billingAddress"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zipCode"`
}

type ChargeResult struct {
	TransactionID string
	Amount        float64
	Status        string
}

type Gateway interface {
	Charge(amount float64, card Card) (*ChargeResult, error)
}

// SimulatedGateway approves or declines at random. Failures carry no
// state: a declined charge leaves nothing to clean up on either side.
type SimulatedGateway struct {
	failureRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulated(failureRate float64) *SimulatedGateway {
	return &SimulatedGateway{
		failureRate: failureRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *SimulatedGateway) Charge(amount float64, card Card) (*ChargeResult, error) {
	if card.Number == "" || card.ExpiryMonth == "" || card.ExpiryYear == "" || card.CVV == "" {
		return nil, fmt.Errorf("%w: missing required card fields", ErrDeclined)
	}

	g.mu.Lock()
	roll := g.rng.Float64()
	suffix := g.rng.Int63()
	g.mu.Unlock()

	if roll < g.failureRate {
		return nil, ErrDeclined
	}
	return &ChargeResult{
		TransactionID: fmt.Sprintf("txn_%d_%d", time.Now().UnixMilli(), suffix),
		Amount:        amount,
		Status:        "completed",
	}, nil
}
