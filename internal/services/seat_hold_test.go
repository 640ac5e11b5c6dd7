package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func anyValue(expected, actual []interface{}) error { return nil }

func TestTryHoldAllSeatsHeld(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := SeatHoldService{Redis: db, TTL: time.Minute}

	mock.CustomMatch(anyValue).ExpectSetNX("hold:1:5", "", time.Minute).SetVal(true)
	mock.CustomMatch(anyValue).ExpectSetNX("hold:1:6", "", time.Minute).SetVal(true)

	token, ok, err := svc.TryHold(context.Background(), 1, []int{5, 6})
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, token)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet redis expectations: %v", err)
	}
}

func TestTryHoldConflictReleasesPartialHolds(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := SeatHoldService{Redis: db, TTL: time.Minute}

	mock.CustomMatch(anyValue).ExpectSetNX("hold:1:5", "", time.Minute).SetVal(true)
	mock.CustomMatch(anyValue).ExpectSetNX("hold:1:6", "", time.Minute).SetVal(false)

	// release path checks ownership before deleting; another token owns both
	mock.ExpectGet("hold:1:5").SetVal("someone-else")
	mock.ExpectGet("hold:1:6").SetVal("someone-else")

	token, ok, err := svc.TryHold(context.Background(), 1, []int{5, 6})
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, token)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet redis expectations: %v", err)
	}
}

func TestReleaseOnlyDeletesOwnedHolds(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := SeatHoldService{Redis: db, TTL: time.Minute}

	mock.ExpectGet("hold:1:5").SetVal("tok-a")
	mock.ExpectGet("hold:1:6").SetVal("tok-b")
	mock.ExpectDel("hold:1:5").SetVal(1)

	err := svc.Release(context.Background(), 1, []int{5, 6}, "tok-a")
	assert.NoError(t, err)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet redis expectations: %v", err)
	}
}

func TestCheckHold(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := SeatHoldService{Redis: db, TTL: time.Minute}

	mock.ExpectGet("hold:1:5").SetVal("tok-a")
	ok, err := svc.CheckHold(context.Background(), 1, 5, "tok-a")
	assert.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectGet("hold:1:9").RedisNil()
	ok, err = svc.CheckHold(context.Background(), 1, 9, "tok-a")
	assert.NoError(t, err)
	assert.False(t, ok)
}
