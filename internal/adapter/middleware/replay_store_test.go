package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"
	"time"
)

func Test_hashBody(t *testing.T) {
	data := []byte("hello world")
	sum := sha256.Sum256(data)
	if got, want := hashBody(data), hex.EncodeToString(sum[:]); got != want {
		t.Fatalf("hashBody mismatch: got %s want %s", got, want)
	}
}

func Test_replayKey(t *testing.T) {
	k := replayKey("PATCH", "/api/v1/applications/:id/status", "u:42", strings.Repeat("a", 32))
	want := "portal:idemp:patch:/api/v1/applications/:id/status:u:42:" + strings.Repeat("a", 32)
	if k != want {
		t.Fatalf("replayKey = %q want %q", k, want)
	}
}

func Test_normalizeRequestID(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88", "3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88", true},
		{"3F9A6A1B-3D54-4FBE-8B3A-6B3E8D6B2C88", "3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88", true},
		{" " + strings.Repeat("A", 32) + " ", strings.Repeat("a", 32), true},
		{"", "", false},
		{strings.Repeat("a", 31), "", false},
		{strings.Repeat("a", 33), "", false},
		{strings.Repeat("z", 32), "", false},
		{"3f9a6a1b-3d54-9fbe-8b3a-6b3e8d6b2c88", "", false}, // version 9
	}
	for _, tc := range cases {
		got, ok := normalizeRequestID(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("normalizeRequestID(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func Test_parseRequestAt(t *testing.T) {
	sec := time.Now().UTC().Unix()
	ms := time.Now().UTC().UnixMilli()
	cases := []struct {
		raw  string
		want time.Time
	}{
		{strconv.FormatInt(sec, 10), time.Unix(sec, 0).UTC()},
		{strconv.FormatInt(ms, 10), time.UnixMilli(ms).UTC()},
		{"2025-09-05T10:00:00+07:00", time.Date(2025, 9, 5, 3, 0, 0, 0, time.UTC)},
		{"2025-09-05T03:00:00Z", time.Date(2025, 9, 5, 3, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := parseRequestAt(tc.raw)
		if err != nil {
			t.Fatalf("parseRequestAt(%q): %v", tc.raw, err)
		}
		if !got.Equal(tc.want) || got.Location() != time.UTC {
			t.Fatalf("parseRequestAt(%q) = %v want %v", tc.raw, got, tc.want)
		}
	}

	for _, raw := range []string{"", "not-a-time", "2025-09-05T10:00:00", "1736123456abc"} {
		if _, err := parseRequestAt(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func Test_replayStore_ReserveLoadFinishRelease(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	s := replayStore{rdb: rdb, lockTTL: pendingLockTTL, ttl: 5 * time.Second}
	ctx := context.Background()
	key := replayKey("POST", "/api/v1/applications", "ip:192.0.2.1", strings.Repeat("a", 32))

	ok, err := s.reserve(ctx, key, replayEntry{BodyHash: hashBody([]byte(`{"a":1}`))})
	if err != nil || !ok {
		t.Fatalf("reserve 1: ok=%v err=%v", ok, err)
	}
	if ttl := rdb.TTL(ctx, key).Val(); ttl <= 0 || ttl > pendingLockTTL {
		t.Fatalf("pending TTL not set correctly: %v", ttl)
	}
	if ok, err = s.reserve(ctx, key, replayEntry{}); err != nil || ok {
		t.Fatalf("reserve 2 should report existing entry: ok=%v err=%v", ok, err)
	}

	got, err := s.load(ctx, key)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.State != statePending || got.replayable() {
		t.Fatalf("pending entry mismatch: %+v", got)
	}

	if err := s.finish(ctx, key, replayEntry{Status: 201, Body: []byte(`{"ok":true}`)}); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if ttl := rdb.TTL(ctx, key).Val(); ttl <= 0 || ttl > 5*time.Second {
		t.Fatalf("final TTL out of range: %v", ttl)
	}
	got, _ = s.load(ctx, key)
	if !got.replayable() || got.Status != 201 || string(got.Body) != `{"ok":true}` {
		t.Fatalf("final entry mismatch: %+v", got)
	}

	if err := s.release(ctx, key); err != nil {
		t.Fatalf("release: %v", err)
	}
	if mr.Exists(key) {
		t.Fatalf("key should be gone after release")
	}
}
