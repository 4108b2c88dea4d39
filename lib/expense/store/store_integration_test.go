//go:build integration

package expensestore

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"expense-approval-backend/db"
	filesdbstorage "expense-approval-backend/lib/file-storage/storage"
	usersstore "expense-approval-backend/lib/users/store"
	"expense-approval-backend/models"
	dbmodels "expense-approval-backend/models/db"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("expenses"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			// postgres перезапускается после инициализации, ждем второе сообщение
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("failed to start container: %s", err)
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("failed to obtain connection string: %s", err)
	}
	testDB, err = db.Open(dsn, false)
	if err != nil {
		log.Fatalf("failed to connect to postgres container: %s", err)
	}
	if err = db.Migrate(testDB); err != nil {
		log.Fatalf("failed to migrate: %s", err)
	}

	exitCode := m.Run()
	if err = container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %s", err)
	}
	os.Exit(exitCode)
}

func createUser(t *testing.T, email string, role models.UserRole) string {
	id, err := usersstore.NewInstance(testDB).Create(dbmodels.User{
		Email:        email,
		Role:         role,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

func TestUsersStore(t *testing.T) {
	store := usersstore.NewInstance(testDB)
	id := createUser(t, " Users.Store@Example.com ", models.EmployeeRole)

	rec, err := store.GetByEmail("users.store@example.com")
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, id, rec.ID)

	_, err = store.Create(dbmodels.User{Email: "users.store@example.com", Role: models.EmployeeRole, PasswordHash: "x"})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	err = testDB.Exec("INSERT INTO users (email, role, password_hash) VALUES ('bad-role@example.com', 'ADMIN', 'x')").Error
	require.Error(t, err)

	missing, err := store.GetByID("00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	require.Nil(t, missing)

	t.Run("upsert manager", func(t *testing.T) {
		require.NoError(t, store.Upsert(dbmodels.User{Email: "boss@example.com", Role: models.ManagerRole, PasswordHash: "h1"}))
		require.NoError(t, store.Upsert(dbmodels.User{Email: "Boss@Example.com", Role: models.ManagerRole, PasswordHash: "h2"}))
		rec, err := store.GetByEmail("boss@example.com")
		require.NoError(t, err)
		require.Equal(t, "h2", rec.PasswordHash)
		require.False(t, rec.MustSetPassword)
	})
}

func TestExpenseStore(t *testing.T) {
	store := NewInstance(testDB)
	owner := createUser(t, "owner@example.com", models.EmployeeRole)
	other := createUser(t, "other@example.com", models.EmployeeRole)

	base := time.Now().Add(-time.Hour)
	ids := make([]string, 0, 3)
	for k, employeeID := range []string{owner, owner, other} {
		id, err := store.Create(dbmodels.Expense{
			Title:       "Обед",
			Status:      models.ExpenseStatusCreated,
			EmployeeID:  employeeID,
			SubmittedAt: base.Add(time.Duration(k) * time.Minute),
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	rec, err := store.GetByID(ids[0])
	require.NoError(t, err)
	require.NotNil(t, rec.Employee)
	require.Equal(t, "owner@example.com", rec.Employee.Email)
	require.Empty(t, rec.Employee.PasswordHash)

	mine, err := store.List(ListFilter{EmployeeID: owner})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, ids[1], mine[0].ID)
	for _, item := range mine {
		require.Equal(t, owner, item.EmployeeID)
	}

	t.Run("conditional status update", func(t *testing.T) {
		updated, err := store.UpdateStatus(ids[0], models.ExpenseStatusCreated, map[string]interface{}{
			"status":     models.ExpenseStatusApproved,
			"updated_at": time.Now(),
		})
		require.NoError(t, err)
		require.True(t, updated)

		updated, err = store.UpdateStatus(ids[0], models.ExpenseStatusCreated, map[string]interface{}{
			"status": models.ExpenseStatusRejected,
		})
		require.NoError(t, err)
		require.False(t, updated)

		rec, err := store.GetByID(ids[0])
		require.NoError(t, err)
		require.Equal(t, models.ExpenseStatusApproved, rec.Status)

		approved, err := store.List(ListFilter{Statuses: models.AccountingStatuses})
		require.NoError(t, err)
		require.Len(t, approved, 1)
	})

	t.Run("approve and reject race", func(t *testing.T) {
		wg := sync.WaitGroup{}
		results := make([]bool, 2)
		for k, next := range []models.ExpenseStatus{models.ExpenseStatusApproved, models.ExpenseStatusRejected} {
			wg.Add(1)
			go func(k int, next models.ExpenseStatus) {
				defer wg.Done()
				updated, err := store.UpdateStatus(ids[2], models.ExpenseStatusCreated, map[string]interface{}{"status": next})
				require.NoError(t, err)
				results[k] = updated
			}(k, next)
		}
		wg.Wait()
		require.NotEqual(t, results[0], results[1])
	})

	t.Run("unknown status rejected by db", func(t *testing.T) {
		_, err := store.UpdateStatus(ids[1], models.ExpenseStatusCreated, map[string]interface{}{"status": "PAID"})
		require.Error(t, err)
	})
}

func TestFilesStore(t *testing.T) {
	owner := createUser(t, "files@example.com", models.EmployeeRole)
	expenseID, err := NewInstance(testDB).Create(dbmodels.Expense{
		Title:       "Такси",
		Status:      models.ExpenseStatusCreated,
		EmployeeID:  owner,
		SubmittedAt: time.Now(),
	})
	require.NoError(t, err)

	store := filesdbstorage.NewInstance(testDB)
	firstID, err := store.SaveFile(dbmodels.ExpenseFile{ExpenseID: expenseID, StoragePath: "a/1-receipt.pdf", MimeType: "application/pdf", FileName: "receipt.pdf", SizeBytes: 10})
	require.NoError(t, err)
	_, err = store.SaveFile(dbmodels.ExpenseFile{ExpenseID: expenseID, StoragePath: "a/2-photo.png", MimeType: "image/png", FileName: "photo.png", SizeBytes: 20})
	require.NoError(t, err)

	list, err := store.GetFileList(expenseID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, firstID, list[0].ID)

	rec, err := store.GetFile(expenseID, firstID)
	require.NoError(t, err)
	require.NotNil(t, rec)

	rec, err = store.GetFile("00000000-0000-0000-0000-000000000000", firstID)
	require.NoError(t, err)
	require.Nil(t, rec)
}
