package payment

import (
	"encoding/hex"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nepalmeatshop/backend/internal/domain/payment"
)

const txnTimeLayout = "20060102150405"

// DefaultSuccessRates reproduces the observed acceptance rates of the
// Nepali gateways the simulator stands in for.
var DefaultSuccessRates = map[payment.Method]float64{
	payment.MethodEsewa:         0.95,
	payment.MethodKhalti:        0.93,
	payment.MethodPhonePay:      0.90,
	payment.MethodMobileBanking: 0.88,
}

// GatewaySimulator decides transaction outcomes in place of the real
// gateway networks. Every processor shares one simulator so success
// rates and transaction IDs stay consistent across methods.
type GatewaySimulator struct {
	rates map[payment.Method]float64
	roll  func() float64
	now   func() time.Time
}

// SimulatorOption customizes a GatewaySimulator.
type SimulatorOption func(*GatewaySimulator)

// WithSuccessRate overrides the success rate for a single method.
func WithSuccessRate(method payment.Method, rate float64) SimulatorOption {
	return func(s *GatewaySimulator) {
		s.rates[method] = rate
	}
}

// WithRoll replaces the random source. Tests use this to force an
// outcome.
func WithRoll(roll func() float64) SimulatorOption {
	return func(s *GatewaySimulator) {
		s.roll = roll
	}
}

// WithClock replaces the wall clock used for transaction IDs.
func WithClock(now func() time.Time) SimulatorOption {
	return func(s *GatewaySimulator) {
		s.now = now
	}
}

// NewGatewaySimulator creates a simulator with the default success
// rates.
func NewGatewaySimulator(opts ...SimulatorOption) *GatewaySimulator {
	s := &GatewaySimulator{
		rates: make(map[payment.Method]float64, len(DefaultSuccessRates)),
		roll:  randomRoll,
		now:   time.Now,
	}
	for m, r := range DefaultSuccessRates {
		s.rates[m] = r
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Decide rolls an outcome for one payment attempt. Methods that settle
// on delivery always come back pending; everything else succeeds with
// the method's configured rate.
func (s *GatewaySimulator) Decide(method payment.Method) payment.TxnStatus {
	if method.SettlesOnDelivery() {
		return payment.TxnStatusPending
	}
	if s.roll() < s.rates[method] {
		return payment.TxnStatusCompleted
	}
	return payment.TxnStatusFailed
}

// NewTransactionID produces a gateway-style reference, a TXN prefix
// followed by the second-resolution timestamp and six hex characters.
func (s *GatewaySimulator) NewTransactionID() string {
	u := uuid.New()
	suffix := strings.ToUpper(hex.EncodeToString(u[:3]))
	return "TXN" + s.now().Format(txnTimeLayout) + suffix
}

// Now exposes the simulator clock so processors can stamp settlement
// times consistently with the IDs they mint.
func (s *GatewaySimulator) Now() time.Time {
	return s.now()
}

func randomRoll() float64 {
	return rand.Float64()
}

