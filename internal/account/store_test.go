package account

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/whisper/market-chat/internal/database"
	"github.com/whisper/market-chat/internal/escalation"
	"github.com/whisper/market-chat/internal/strike"
)

// newTestDB connects to the database named by TEST_DATABASE_URL, applies
// migrations and returns the handle. Tests are skipped without it.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := database.Open(ctx, dsn)
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createUser inserts a user, optionally with an active seller profile.
func createUser(t *testing.T, db *sql.DB, seller bool) int64 {
	t.Helper()
	ctx := context.Background()
	var id int64
	if err := db.QueryRowContext(ctx, `INSERT INTO users DEFAULT VALUES RETURNING id`).Scan(&id); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if seller {
		if _, err := db.ExecContext(ctx, `INSERT INTO sellers (user_id) VALUES ($1)`, id); err != nil {
			t.Fatalf("insert seller: %v", err)
		}
	}
	t.Cleanup(func() {
		db.ExecContext(ctx, `DELETE FROM strikes WHERE user_id = $1`, id)
		db.ExecContext(ctx, `DELETE FROM sellers WHERE user_id = $1`, id)
		db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

func TestIsSeller(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	buyer := createUser(t, db, false)
	seller := createUser(t, db, true)

	if ok, err := store.IsSeller(ctx, buyer); err != nil || ok {
		t.Errorf("IsSeller(buyer) = %v, %v; want false", ok, err)
	}
	if ok, err := store.IsSeller(ctx, seller); err != nil || !ok {
		t.Errorf("IsSeller(seller) = %v, %v; want true", ok, err)
	}
}

func TestBlockUser_Idempotent(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	ctx := context.Background()
	id := createUser(t, db, true)

	for i := 0; i < 2; i++ {
		if err := store.BlockUser(ctx, id); err != nil {
			t.Fatalf("BlockUser() call %d error: %v", i+1, err)
		}
	}
	blocked, err := store.IsBlocked(ctx, id)
	if err != nil || !blocked {
		t.Errorf("IsBlocked() = %v, %v; want true", blocked, err)
	}

	if err := store.SetSellerInactive(ctx, id); err != nil {
		t.Fatalf("SetSellerInactive() error: %v", err)
	}
	if status, _ := store.SellerStatus(ctx, id); status != SellerStatusInactive {
		t.Errorf("SellerStatus() = %q, want %q", status, SellerStatusInactive)
	}
}

func TestBlockUser_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	err := store.BlockUser(context.Background(), -1)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("BlockUser(-1) error = %v, want ErrUserNotFound", err)
	}
}

// TestEscalation_SellerBlockedOnThirdStrike runs the escalation engine
// against the real strike and account stores.
func TestEscalation_SellerBlockedOnThirdStrike(t *testing.T) {
	db := newTestDB(t)
	accounts := NewStore(db)
	strikes := strike.NewStore(db)
	engine := escalation.NewEngine(strikes, accounts, nil, nil)
	ctx := context.Background()
	seller := createUser(t, db, true)

	for i := 0; i < 2; i++ {
		if _, err := strikes.Create(ctx, seller, "previous"); err != nil {
			t.Fatalf("seed strike: %v", err)
		}
	}

	out, err := engine.RegisterStrike(ctx, seller, 3, "Se detecto un numero de telefono en el mensaje")
	if err != nil {
		t.Fatalf("RegisterStrike() error: %v", err)
	}
	if !out.Blocked || out.StrikeCount != 3 {
		t.Fatalf("outcome = %+v, want blocked after 3 strikes", out)
	}

	if blocked, _ := accounts.IsBlocked(ctx, seller); !blocked {
		t.Error("account not blocked")
	}
	if status, _ := accounts.SellerStatus(ctx, seller); status != SellerStatusInactive {
		t.Errorf("seller status = %q, want inactive", status)
	}

	recent, err := strikes.ListRecent(ctx, seller, 10)
	if err != nil {
		t.Fatalf("ListRecent() error: %v", err)
	}
	if len(recent) != 3 || recent[0].Reason != "Se detecto un numero de telefono en el mensaje" {
		t.Errorf("ListRecent() = %+v", recent)
	}
}
