package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SeatHoldService parks seats in Redis during checkout, before the claim is
// committed. Holds are advisory with a short TTL; the ledger stays the
// source of truth. A hold either covers every requested seat or none.
type SeatHoldService struct {
	Redis *redis.Client
	TTL   time.Duration
}

func holdKey(tripID int64, seat int) string {
	return fmt.Sprintf("hold:%d:%d", tripID, seat)
}

func (s SeatHoldService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return 5 * time.Minute
}

// TryHold attempts to hold every seat with a fresh token. When any seat is
// already held by someone else, the partial holds are released and ok is
// false.
func (s SeatHoldService) TryHold(ctx context.Context, tripID int64, seats []int) (token string, ok bool, err error) {
	if len(seats) == 0 {
		return "", false, fmt.Errorf("empty seat list")
	}
	token = uuid.NewString()

	pipe := s.Redis.TxPipeline()
	for _, seat := range seats {
		pipe.SetNX(ctx, holdKey(tripID, seat), token, s.ttl())
	}
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return "", false, err
	}

	for _, cmd := range cmds {
		if !cmd.(*redis.BoolCmd).Val() {
			_ = s.Release(ctx, tripID, seats, token)
			return "", false, nil
		}
	}
	return token, true, nil
}

// Release drops holds owned by the token; holds taken over by another token
// are left alone.
func (s SeatHoldService) Release(ctx context.Context, tripID int64, seats []int, token string) error {
	pipe := s.Redis.TxPipeline()
	gets := make([]*redis.StringCmd, 0, len(seats))
	for _, seat := range seats {
		gets = append(gets, pipe.Get(ctx, holdKey(tripID, seat)))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return err
	}

	delPipe := s.Redis.Pipeline()
	deleted := 0
	for i, get := range gets {
		current, err := get.Result()
		if err == nil && current == token {
			delPipe.Del(ctx, holdKey(tripID, seats[i]))
			deleted++
		}
	}
	if deleted > 0 {
		_, err := delPipe.Exec(ctx)
		return err
	}
	return nil
}

// CheckHold reports whether the token still owns the hold on a seat.
func (s SeatHoldService) CheckHold(ctx context.Context, tripID int64, seat int, token string) (bool, error) {
	val, err := s.Redis.Get(ctx, holdKey(tripID, seat)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == token, nil
}
