package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/utils"
)

var rentalColumnList = []string{
	"id", "client_id", "vehicle_id", "employee_id", "reservation_id", "start_date", "end_date",
	"base_cost_cents", "total_cost_cents", "status", "notes", "initial_km", "final_km",
	"closing_employee_id", "cancel_reason", "cancelled_on", "cancelled_by", "created_on", "updated_on",
}

func addRentalRow(rows *sqlmock.Rows, id int64, start, end utils.Date, status domain.RentalStatus) {
	now := time.Now()
	rows.AddRow(id, int64(1), int64(2), int64(3), nil, start.Time(), end.Time(),
		int64(2500000), int64(2500000), string(status), "", int64(50000), nil,
		nil, nil, nil, nil, now, now)
}

func TestRentalRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRentalRepository(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(rentalColumnList)
		addRentalRow(rows, 1,
			utils.Date{Year: 2026, Month: 6, Day: 10}, utils.Date{Year: 2026, Month: 6, Day: 15},
			domain.RentalStatusActive)
		mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE id = \$1`).WithArgs(int64(1)).WillReturnRows(rows)

		rt, err := repo.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), rt.ID)
		assert.Equal(t, utils.Date{Year: 2026, Month: 6, Day: 10}, rt.StartDate)
		assert.Equal(t, domain.RentalStatusActive, rt.Status)
		assert.Nil(t, rt.FinalKm)
	})

	t.Run("missing rental maps to not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE id = \$1`).WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(rentalColumnList))

		_, err := repo.GetByID(ctx, 99)
		var nf *domain.NotFoundError
		assert.ErrorAs(t, err, &nf)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_CreateGuarded(t *testing.T) {
	ctx := context.Background()
	rt := &domain.Rental{
		ClientID: 1, VehicleID: 2, EmployeeID: 3,
		StartDate: utils.Date{Year: 2026, Month: 7, Day: 1},
		EndDate:   utils.Date{Year: 2026, Month: 7, Day: 5},
		Status:    domain.RentalStatusPending,
	}

	t.Run("overlap found under the lock aborts with conflicts", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`)).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
		mock.ExpectQuery(`SELECT id, start_date, end_date FROM rentals`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "start_date", "end_date"}).
				AddRow(int64(40),
					utils.Date{Year: 2026, Month: 7, Day: 3}.Time(),
					utils.Date{Year: 2026, Month: 7, Day: 8}.Time()))
		mock.ExpectQuery(`SELECT id, start_date, end_date FROM maintenance_records`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "start_date", "end_date"}))
		mock.ExpectRollback()

		err = repo.CreateGuarded(ctx, rt)
		var conflict *domain.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Len(t, conflict.Conflicts, 1)
		assert.Equal(t, int64(40), conflict.Conflicts[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("clean range inserts and commits", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`)).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
		mock.ExpectQuery(`SELECT id, start_date, end_date FROM rentals`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "start_date", "end_date"}))
		mock.ExpectQuery(`SELECT id, start_date, end_date FROM maintenance_records`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "start_date", "end_date"}))
		mock.ExpectQuery(`INSERT INTO rentals`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
		mock.ExpectCommit()

		err = repo.CreateGuarded(ctx, rt)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), rt.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown vehicle maps to not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`)).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err = repo.CreateGuarded(ctx, rt)
		var nf *domain.NotFoundError
		assert.ErrorAs(t, err, &nf)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalRepository_List(t *testing.T) {
	ctx := context.Background()
	today := utils.Date{Year: 2026, Month: 6, Day: 20}

	t.Run("checkout due bucket filters on dates over non-terminal rows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRentalRepository(db)

		rows := sqlmock.NewRows(rentalColumnList)
		addRentalRow(rows, 5,
			utils.Date{Year: 2026, Month: 6, Day: 1}, utils.Date{Year: 2026, Month: 6, Day: 10},
			domain.RentalStatusActive)
		mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE 1=1 AND status NOT IN \('FINALIZED','CANCELLED'\) AND end_date < \$1`).
			WithArgs(today.Time()).
			WillReturnRows(rows)

		rentals, err := repo.List(ctx, repository.RentalFilter{Bucket: repository.BucketCheckoutDue, Today: today})
		assert.NoError(t, err)
		assert.Len(t, rentals, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("client filter combines with bucket", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRentalRepository(db)

		clientID := int64(1)
		mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE 1=1 AND status = 'FINALIZED' AND client_id = \$1`).
			WithArgs(clientID).
			WillReturnRows(sqlmock.NewRows(rentalColumnList))

		rentals, err := repo.List(ctx, repository.RentalFilter{
			Bucket: repository.BucketFinalized, Today: today, ClientID: &clientID,
		})
		assert.NoError(t, err)
		assert.Empty(t, rentals)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalRepository_UpdateTotalCost(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRentalRepository(db)
	ctx := context.Background()

	t.Run("updates the row", func(t *testing.T) {
		mock.ExpectExec(`UPDATE rentals SET total_cost_cents = \$1`).
			WithArgs(int64(2510000), sqlmock.AnyArg(), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateTotalCost(ctx, 1, 2510000))
	})

	t.Run("missing rental maps to not found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE rentals SET total_cost_cents = \$1`).
			WithArgs(int64(2510000), sqlmock.AnyArg(), int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateTotalCost(ctx, 99, 2510000)
		var nf *domain.NotFoundError
		assert.ErrorAs(t, err, &nf)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
