// Package redis keeps the pre-assigned waybill pool in Redis for deployments that
// share it between services. Each carrier has a set of available waybills and a
// single hash tracks every open reservation with its timestamp.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const (
	availableKeyPrefix = "waybills:available:"
	reservedKey        = "waybills:reserved"
)

// reserveScript pops a waybill and records the reservation in one step.
var reserveScript = redis.NewScript(`
local waybill = redis.call('SPOP', KEYS[1])
if not waybill then
	return false
end
redis.call('HSET', KEYS[2], ARGV[1] .. ':' .. waybill, ARGV[2])
return waybill
`)

// releaseScript returns a waybill to its carrier's set only if it was reserved.
var releaseScript = redis.NewScript(`
if redis.call('HDEL', KEYS[2], ARGV[1] .. ':' .. ARGV[2]) == 0 then
	return 0
end
redis.call('SADD', KEYS[1], ARGV[2])
return 1
`)

// WaybillPool implements ports.IdentifierPool and ports.StrandedIdentifierFinder.
// Reservations are taken in no particular order.
type WaybillPool struct {
	client *redis.Client
	now    func() time.Time
}

func NewWaybillPool(client *redis.Client) *WaybillPool {
	return &WaybillPool{client: client, now: time.Now}
}

func (p *WaybillPool) Reserve(ctx context.Context, carrierCode int) (shipment.Reservation, error) {
	reservedAt := p.now().UTC()
	waybill, err := reserveScript.Run(ctx, p.client,
		[]string{availableKey(carrierCode), reservedKey},
		carrierCode, reservedAt.UnixMilli(),
	).Text()
	if errors.Is(err, redis.Nil) {
		return shipment.Reservation{}, fmt.Errorf("carrier %d: %w", carrierCode, ports.ErrIdentifierPoolExhausted)
	}
	if err != nil {
		return shipment.Reservation{}, err
	}

	return shipment.Reservation{
		Carrier:    carrierCode,
		Waybill:    waybill,
		ReservedAt: time.UnixMilli(reservedAt.UnixMilli()).UTC(),
	}, nil
}

func (p *WaybillPool) Release(ctx context.Context, reservation shipment.Reservation) error {
	released, err := releaseScript.Run(ctx, p.client,
		[]string{availableKey(reservation.Carrier), reservedKey},
		reservation.Carrier, reservation.Waybill,
	).Int()
	if err != nil {
		return err
	}
	if released == 0 {
		return notReserved(reservation)
	}
	return nil
}

// Consume drops the reservation; the waybill never returns to the pool.
func (p *WaybillPool) Consume(ctx context.Context, reservation shipment.Reservation) error {
	removed, err := p.client.HDel(ctx, reservedKey, field(reservation.Carrier, reservation.Waybill)).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return notReserved(reservation)
	}
	return nil
}

// FindStranded scans the reservation hash. It holds one entry per open
// reservation, so it stays small while bookings complete normally.
func (p *WaybillPool) FindStranded(ctx context.Context, reservedBefore time.Time) ([]shipment.Reservation, error) {
	entries, err := p.client.HGetAll(ctx, reservedKey).Result()
	if err != nil {
		return nil, err
	}

	out := make([]shipment.Reservation, 0)
	for key, value := range entries {
		carrierPart, waybill, ok := strings.Cut(key, ":")
		if !ok {
			continue
		}
		carrierCode, convErr := strconv.Atoi(carrierPart)
		if convErr != nil {
			continue
		}
		millis, convErr := strconv.ParseInt(value, 10, 64)
		if convErr != nil {
			continue
		}
		reservedAt := time.UnixMilli(millis).UTC()
		if reservedAt.Before(reservedBefore) {
			out = append(out, shipment.Reservation{Carrier: carrierCode, Waybill: waybill, ReservedAt: reservedAt})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ReservedAt.Before(out[j].ReservedAt) })
	return out, nil
}

// Load adds waybills to a carrier's available set and reports how many were new.
func (p *WaybillPool) Load(ctx context.Context, carrierCode int, waybills ...string) (int64, error) {
	if len(waybills) == 0 {
		return 0, nil
	}
	members := make([]any, 0, len(waybills))
	for _, w := range waybills {
		if w == "" {
			return 0, errs.NewValueIsRequiredError("waybill")
		}
		members = append(members, w)
	}
	return p.client.SAdd(ctx, availableKey(carrierCode), members...).Result()
}

func availableKey(carrierCode int) string {
	return availableKeyPrefix + strconv.Itoa(carrierCode)
}

func field(carrierCode int, waybill string) string {
	return strconv.Itoa(carrierCode) + ":" + waybill
}

func notReserved(r shipment.Reservation) error {
	return errs.NewObjectNotFoundError("reservation", field(r.Carrier, r.Waybill))
}
