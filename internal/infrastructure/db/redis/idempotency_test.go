package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookkeep/library-records/internal/core/ports"
)

func TestIdempotencyKeyFormat(t *testing.T) {
	s := NewIdempotencyStore(nil, 0)
	if got := s.key("abc-123"); got != "idempotency:borrow:abc-123" {
		t.Errorf("key = %q", got)
	}
	if s.ttl != DefaultIdempotencyTTL {
		t.Errorf("ttl = %v, want default", s.ttl)
	}
}

func TestBorrowResultRoundTrip(t *testing.T) {
	in := ports.BorrowResult{
		Message:    "Book borrowed successfully",
		MemberName: "ada",
		BookTitle:  "Dune",
		BorrowDate: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		BookID:     7,
		MemberID:   3,
		Replayed:   true,
	}
	raw, err := json.Marshal(&in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out ports.BorrowResult
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Replayed {
		t.Error("Replayed must not be persisted")
	}
	if out.BookID != 7 || out.MemberID != 3 {
		t.Errorf("request ids lost: book=%d member=%d", out.BookID, out.MemberID)
	}
	if !out.BorrowDate.Equal(in.BorrowDate) || out.BookTitle != in.BookTitle || out.MemberName != in.MemberName {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestLookupUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	s := NewIdempotencyStore(client, time.Minute)
	res, err := s.Lookup(context.Background(), "k")
	if err == nil {
		t.Fatal("expected an error from an unreachable server")
	}
	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
}

func TestConfigEnabled(t *testing.T) {
	if (Config{}).Enabled() {
		t.Error("empty config should be disabled")
	}
	if !(Config{Addr: "localhost:6379"}).Enabled() {
		t.Error("config with an address should be enabled")
	}
}

func TestClientOptions(t *testing.T) {
	opts := clientOptions(Config{Addr: "cache:6379", Password: "pw", DB: 2, PoolSize: 8})
	if opts.Addr != "cache:6379" || opts.Password != "pw" || opts.DB != 2 || opts.PoolSize != 8 {
		t.Errorf("settings not applied: %+v", opts)
	}
	if opts.ClientName != clientName {
		t.Errorf("client name = %q", opts.ClientName)
	}
	for name, d := range map[string]time.Duration{"dial": opts.DialTimeout, "read": opts.ReadTimeout, "write": opts.WriteTimeout} {
		if d != defaultTimeout {
			t.Errorf("%s timeout = %v, want %v", name, d, defaultTimeout)
		}
	}

	if got := clientOptions(Config{Addr: "x", Timeout: time.Second}).ReadTimeout; got != time.Second {
		t.Errorf("explicit timeout ignored: %v", got)
	}
}
