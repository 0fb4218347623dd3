package store

import (
	"context"
	"errors"
	"time"

	"github.com/MuazAshraf/pharmacy-pos/domain"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock is returned when a bill asks for more units
	// than a medicine has on hand (or the medicine does not exist).
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidInput is returned for requests the store refuses outright,
	// before touching the database.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateUser is returned when a signup reuses a username.
	ErrDuplicateUser = errors.New("username already exists")
)

// Store is the persistence boundary. Both the Postgres store and the
// in-memory store used by tests implement it, so the billing transaction
// and inventory logic stay testable without a running database.
type Store interface {
	ListMedicines(ctx context.Context) ([]domain.Medicine, error)
	CreateMedicine(ctx context.Context, input domain.MedicineInput) (*domain.Medicine, error)
	UpdateMedicine(ctx context.Context, medicine domain.Medicine) error

	CreateBill(ctx context.Context, bill domain.BillRequest) (int64, error)

	Report(ctx context.Context, start, end time.Time) (*domain.Report, error)

	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
