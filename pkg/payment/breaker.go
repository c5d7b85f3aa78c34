package payment

import (
	"warehub/pkg/circuitbreaker"
)

type guardedGateway struct {
	inner   Gateway
	breaker *circuitbreaker.Breaker
}

// WithBreaker fronts a gateway with a circuit breaker so a flapping
// payment provider fails fast instead of stalling every checkout.
// A rejected call while the breaker is open surfaces as a decline.
func WithBreaker(g Gateway, b *circuitbreaker.Breaker) Gateway {
	return &guardedGateway{inner: g, breaker: b}
}

func (g *guardedGateway) Charge(amount float64, card Card) (*ChargeResult, error) {
	var result *ChargeResult
	err := g.breaker.Do(func() error {
		res, err := g.inner.Charge(amount, card)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
