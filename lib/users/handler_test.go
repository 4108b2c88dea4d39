package usershandler

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	attachmenturl "expense-approval-backend/lib/attachment-url"
	filestorage "expense-approval-backend/lib/file-storage"
	usersstore "expense-approval-backend/lib/users/store"
	apperrors "expense-approval-backend/lib/utils/app-errors"
	authutils "expense-approval-backend/lib/utils/auth-utils"
	"expense-approval-backend/models"
	usersapimodels "expense-approval-backend/models/api/users"
	dbmodels "expense-approval-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeUsersStore struct {
	mu    sync.Mutex
	seq   int
	users map[string]dbmodels.User
}

func newFakeUsersStore() *fakeUsersStore {
	return &fakeUsersStore{users: map[string]dbmodels.User{}}
}

func (s *fakeUsersStore) Create(rec dbmodels.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	rec.ID = fmt.Sprintf("user-%d", s.seq)
	rec.Email = usersstore.NormalizeEmail(rec.Email)
	rec.CreatedAt = time.Now()
	s.users[rec.ID] = rec
	return rec.ID, nil
}

func (s *fakeUsersStore) GetByID(id string) (*dbmodels.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *fakeUsersStore) GetByEmail(email string) (*dbmodels.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.users {
		if rec.Email == usersstore.NormalizeEmail(email) {
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *fakeUsersStore) List() ([]dbmodels.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []dbmodels.User{}
	for _, rec := range s.users {
		list = append(list, rec)
	}
	return list, nil
}

func (s *fakeUsersStore) Update(id string, updMap map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.users[id]
	for key, value := range updMap {
		switch key {
		case "password_hash":
			rec.PasswordHash = value.(string)
		case "must_set_password":
			rec.MustSetPassword = value.(bool)
		case "avatar_path":
			path := value.(string)
			rec.AvatarPath = &path
		case "avatar_mime":
			mime := value.(string)
			rec.AvatarMime = &mime
		case "avatar_updated_at":
			updatedAt := value.(time.Time)
			rec.AvatarUpdatedAt = &updatedAt
		default:
			return errors.Errorf("unexpected column %s", key)
		}
	}
	s.users[id] = rec
	return nil
}

func (s *fakeUsersStore) Upsert(rec dbmodels.User) error {
	existing, _ := s.GetByEmail(rec.Email)
	if existing == nil {
		_, err := s.Create(rec)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing.Role = rec.Role
	existing.PasswordHash = rec.PasswordHash
	existing.MustSetPassword = rec.MustSetPassword
	s.users[existing.ID] = *existing
	return nil
}

type fakeAvatarStorage struct {
	mu      sync.Mutex
	objects map[string]string
	fail    bool
}

func (s *fakeAvatarStorage) Upload(ctx context.Context, namespace models.FileNamespace, path string, fileReader io.Reader, fileSize int64, contentType string) error {
	if s.fail {
		return errors.New("s3: no such bucket")
	}
	body, err := io.ReadAll(fileReader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[string(namespace)+"/"+path] = string(body)
	return nil
}

func (s *fakeAvatarStorage) SignURL(ctx context.Context, namespace models.FileNamespace, path string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://s3.example/%s/%s", namespace, filestorage.ObjectKey(namespace, path)), nil
}

func (s *fakeAvatarStorage) MakeBuckets(ctx context.Context) error {
	return nil
}

func (s *fakeAvatarStorage) Ping(ctx context.Context) error {
	return nil
}

var pngBody = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01"

func newTestHandler() (Provider, *fakeUsersStore, *fakeAvatarStorage) {
	store := newFakeUsersStore()
	storage := &fakeAvatarStorage{objects: map[string]string{}}
	composer := attachmenturl.NewComposer(storage, attachmenturl.Settings{TTL: time.Hour})
	return NewInstance(store, storage, composer, 1024), store, storage
}

func upload(name, body string) models.UploadFile {
	return models.UploadFile{
		FileName: name,
		Size:     int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func addUser(t *testing.T, store *fakeUsersStore, role models.UserRole, password string) models.Identity {
	hash, err := authutils.HashPassword(password)
	require.NoError(t, err)
	id, err := store.Create(dbmodels.User{Email: string(role) + "@example.com", Role: role, PasswordHash: hash})
	require.NoError(t, err)
	rec, _ := store.GetByID(id)
	return rec.ToIdentity()
}

func TestCreateUser(t *testing.T) {
	handler, store, _ := newTestHandler()
	manager := addUser(t, store, models.ManagerRole, "manager-password")
	employee := addUser(t, store, models.EmployeeRole, "employee-password")

	t.Run("manager creates user with temp password", func(t *testing.T) {
		result, err := handler.CreateUser(manager, usersapimodels.CreateUserRequest{Email: " New.User@Example.com ", Role: models.AccountingRole})
		require.NoError(t, err)
		require.Len(t, result.TempPassword, 12)
		require.True(t, result.User.MustSetPassword)
		require.Equal(t, "new.user@example.com", result.User.Email)

		rec, err := store.GetByEmail("new.user@example.com")
		require.NoError(t, err)
		require.True(t, authutils.CheckPassword(rec.PasswordHash, result.TempPassword))
		require.NotEqual(t, result.TempPassword, rec.PasswordHash)
	})
	t.Run("duplicate email", func(t *testing.T) {
		_, err := handler.CreateUser(manager, usersapimodels.CreateUserRequest{Email: "new.user@example.com", Role: models.EmployeeRole})
		require.True(t, errors.Is(err, apperrors.ErrConflict))
	})
	t.Run("unknown role", func(t *testing.T) {
		_, err := handler.CreateUser(manager, usersapimodels.CreateUserRequest{Email: "x@example.com", Role: "ADMIN"})
		require.True(t, errors.Is(err, apperrors.ErrValidation))
	})
	t.Run("only manager", func(t *testing.T) {
		_, err := handler.CreateUser(employee, usersapimodels.CreateUserRequest{Email: "y@example.com", Role: models.EmployeeRole})
		require.True(t, errors.Is(err, apperrors.ErrForbidden))
		_, err = handler.ListUsers(employee)
		require.True(t, errors.Is(err, apperrors.ErrForbidden))
	})
	t.Run("list", func(t *testing.T) {
		list, err := handler.ListUsers(manager)
		require.NoError(t, err)
		require.Len(t, list, 3)
	})
}

func TestPasswords(t *testing.T) {
	handler, store, _ := newTestHandler()
	manager := addUser(t, store, models.ManagerRole, "manager-password")
	employee := addUser(t, store, models.EmployeeRole, "employee-password")

	t.Run("reset temp password", func(t *testing.T) {
		result, err := handler.ResetTempPassword(manager, employee.ID)
		require.NoError(t, err)
		require.True(t, result.User.MustSetPassword)
		rec, _ := store.GetByID(employee.ID)
		require.True(t, rec.MustSetPassword)
		require.True(t, authutils.CheckPassword(rec.PasswordHash, result.TempPassword))

		_, err = handler.ResetTempPassword(manager, "missing")
		require.True(t, errors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("first login gate blocks change password", func(t *testing.T) {
		blocked := employee
		blocked.MustSetPassword = true
		err := handler.ChangePassword(blocked, usersapimodels.ChangePasswordRequest{CurrentPassword: "x", NewPassword: "new-password"})
		require.True(t, errors.Is(err, apperrors.ErrForbidden))
	})

	t.Run("change password", func(t *testing.T) {
		err := handler.ChangePassword(manager, usersapimodels.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "new-password"})
		require.True(t, errors.Is(err, apperrors.ErrUnauthorized))

		err = handler.ChangePassword(manager, usersapimodels.ChangePasswordRequest{CurrentPassword: "manager-password", NewPassword: "short"})
		require.True(t, errors.Is(err, apperrors.ErrValidation))

		err = handler.ChangePassword(manager, usersapimodels.ChangePasswordRequest{CurrentPassword: "manager-password", NewPassword: "new-password"})
		require.NoError(t, err)
		rec, _ := store.GetByID(manager.ID)
		require.True(t, authutils.CheckPassword(rec.PasswordHash, "new-password"))
		require.False(t, rec.MustSetPassword)
	})
}

func TestAvatar(t *testing.T) {
	handler, store, storage := newTestHandler()
	employee := addUser(t, store, models.EmployeeRole, "employee-password")

	_, err := handler.GetAvatarURL(context.Background(), employee)
	require.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = handler.SetAvatar(context.Background(), employee, upload("notes.txt", "plain text"))
	require.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = handler.SetAvatar(context.Background(), employee, upload("big.png", pngBody+strings.Repeat("x", 2048)))
	require.True(t, errors.Is(err, apperrors.ErrValidation))

	view, err := handler.SetAvatar(context.Background(), employee, upload("me.png", pngBody))
	require.NoError(t, err)
	require.NotNil(t, view.URL)
	require.Equal(t, 3600, view.ExpiresIn)

	rec, _ := store.GetByID(employee.ID)
	require.NotNil(t, rec.AvatarPath)
	require.Equal(t, "image/png", *rec.AvatarMime)
	require.True(t, strings.HasPrefix(*rec.AvatarPath, employee.ID+"/"))
	require.NotContains(t, *view.URL, *rec.AvatarPath)
	require.Contains(t, *view.URL, filestorage.ObjectKey(models.AvatarsNamespace, *rec.AvatarPath))
	require.Len(t, storage.objects, 1)

	view, err = handler.GetAvatarURL(context.Background(), employee)
	require.NoError(t, err)
	require.NotNil(t, view.URL)

	storage.fail = true
	_, err = handler.SetAvatar(context.Background(), employee, upload("me.png", pngBody))
	require.True(t, errors.Is(err, apperrors.ErrUpstream))
}

func TestSeedManager(t *testing.T) {
	handler, store, _ := newTestHandler()

	require.NoError(t, handler.SeedManager("", ""))
	list, _ := store.List()
	require.Empty(t, list)

	require.NoError(t, handler.SeedManager("Manager@Example.com", "first-password"))
	require.NoError(t, handler.SeedManager("manager@example.com", "second-password"))
	list, _ = store.List()
	require.Len(t, list, 1)
	require.Equal(t, models.ManagerRole, list[0].Role)
	require.False(t, list[0].MustSetPassword)
	require.True(t, authutils.CheckPassword(list[0].PasswordHash, "second-password"))

	require.Error(t, handler.SeedManager("manager@example.com", "short"))
}
