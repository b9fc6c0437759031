package guard_test

import (
	"errors"
	"sync"
	"testing"

	"freight/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
)

var errReservationNotConstructed = errors.New("reservation must be created via newReservation")

type reservation struct {
	carrier int
	waybill string
	guard   guard.ConstructorGuard
}

func newReservation(carrier int, waybill string) reservation {
	return reservation{carrier: carrier, waybill: waybill, guard: guard.NewConstructorGuard()}
}

func (r reservation) Validate() error {
	return r.guard.Validate(errReservationNotConstructed)
}

func TestConstructorGuard_Validate(t *testing.T) {
	tests := []struct {
		name  string
		guard guard.ConstructorGuard
		given error
		want  error
	}{
		{name: "constructed ignores the given error", guard: guard.NewConstructorGuard(), given: errReservationNotConstructed},
		{name: "constructed with nil error", guard: guard.NewConstructorGuard()},
		{name: "zero value returns the given error", given: errReservationNotConstructed, want: errReservationNotConstructed},
		{name: "zero value falls back to the default", want: guard.ErrDefaultConstructorGuard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.guard.Validate(tt.given))
		})
	}
}

func TestConstructorGuard_Embedded(t *testing.T) {
	t.Run("constructed value and its copies are valid", func(t *testing.T) {
		r := newReservation(7, "WB-000123")
		cp := r

		assert.NoError(t, r.Validate())
		assert.NoError(t, cp.Validate())
	})

	t.Run("zero value is rejected", func(t *testing.T) {
		assert.ErrorIs(t, reservation{carrier: 7}.Validate(), errReservationNotConstructed)
	})
}

func TestConstructorGuard_ConcurrentValidate(t *testing.T) {
	r := newReservation(7, "WB-1")

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				assert.NoError(t, r.Validate())
			}
		}()
	}
	wg.Wait()
}
