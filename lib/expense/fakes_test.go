package expensehandler

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	expensestore "expense-approval-backend/lib/expense/store"
	filestorage "expense-approval-backend/lib/file-storage"
	"expense-approval-backend/models"
	dbmodels "expense-approval-backend/models/db"

	"github.com/pkg/errors"
)

type fakeExpenseStore struct {
	mu           sync.Mutex
	seq          int
	recs         map[string]dbmodels.Expense
	users        map[string]dbmodels.User
	beforeUpdate func(id string)
}

func newFakeExpenseStore(users ...dbmodels.User) *fakeExpenseStore {
	s := &fakeExpenseStore{recs: map[string]dbmodels.Expense{}, users: map[string]dbmodels.User{}}
	for _, user := range users {
		s.users[user.ID] = user
	}
	return s
}

func (s *fakeExpenseStore) Create(rec dbmodels.Expense) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	rec.ID = fmt.Sprintf("exp-%d", s.seq)
	rec.UpdatedAt = rec.SubmittedAt
	s.recs[rec.ID] = rec
	return rec.ID, nil
}

func (s *fakeExpenseStore) GetByID(id string) (*dbmodels.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return nil, nil
	}
	return s.withEmployee(rec), nil
}

func (s *fakeExpenseStore) List(filter expensestore.ListFilter) ([]dbmodels.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []dbmodels.Expense{}
	for _, rec := range s.recs {
		if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
			continue
		}
		if len(filter.Statuses) != 0 && !containsStatus(filter.Statuses, rec.Status) {
			continue
		}
		list = append(list, *s.withEmployee(rec))
	}
	sort.Slice(list, func(a, b int) bool { return list[a].SubmittedAt.After(list[b].SubmittedAt) })
	return list, nil
}

func (s *fakeExpenseStore) UpdateStatus(id string, from models.ExpenseStatus, updMap map[string]interface{}) (bool, error) {
	if s.beforeUpdate != nil {
		s.beforeUpdate(id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok || rec.Status != from {
		return false, nil
	}
	for key, value := range updMap {
		switch key {
		case "status":
			rec.Status = value.(models.ExpenseStatus)
		case "updated_at":
			rec.UpdatedAt = value.(time.Time)
		case "comment":
			comment := value.(string)
			rec.Comment = &comment
		case "manager_comment":
			comment := value.(string)
			rec.ManagerComment = &comment
		case "accounting_comment":
			comment := value.(string)
			rec.AccountingComment = &comment
		default:
			return false, errors.Errorf("unexpected column %s", key)
		}
	}
	s.recs[id] = rec
	return true, nil
}

func (s *fakeExpenseStore) setStatus(id string, status models.ExpenseStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.recs[id]
	rec.Status = status
	s.recs[id] = rec
}

func (s *fakeExpenseStore) withEmployee(rec dbmodels.Expense) *dbmodels.Expense {
	if user, ok := s.users[rec.EmployeeID]; ok {
		rec.Employee = &dbmodels.User{BaseModel: dbmodels.BaseModel{ID: user.ID}, Email: user.Email}
	}
	return &rec
}

type fakeFilesStore struct {
	mu    sync.Mutex
	seq   int
	files []dbmodels.ExpenseFile
}

func (s *fakeFilesStore) SaveFile(rec dbmodels.ExpenseFile) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	rec.ID = fmt.Sprintf("file-%d", s.seq)
	rec.CreatedAt = time.Now()
	s.files = append(s.files, rec)
	return rec.ID, nil
}

func (s *fakeFilesStore) GetFile(expenseID, fileID string) (*dbmodels.ExpenseFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, file := range s.files {
		if file.ID == fileID && file.ExpenseID == expenseID {
			return &file, nil
		}
	}
	return nil, nil
}

func (s *fakeFilesStore) GetFileList(expenseID string) ([]dbmodels.ExpenseFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []dbmodels.ExpenseFile{}
	for _, file := range s.files {
		if file.ExpenseID == expenseID {
			list = append(list, file)
		}
	}
	return list, nil
}

type fakeObjectStorage struct {
	mu         sync.Mutex
	objects    map[string][]byte
	types      map[string]string
	failUpload map[string]bool
	failSign   map[string]bool
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{
		objects:    map[string][]byte{},
		types:      map[string]string{},
		failUpload: map[string]bool{},
		failSign:   map[string]bool{},
	}
}

func (s *fakeObjectStorage) Upload(ctx context.Context, namespace models.FileNamespace, path string, fileReader io.Reader, fileSize int64, contentType string) error {
	body, err := io.ReadAll(fileReader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for name := range s.failUpload {
		if len(path) >= len(name) && path[len(path)-len(name):] == name {
			return errors.New("s3: connection reset by peer")
		}
	}
	if _, exists := s.objects[path]; exists {
		return errors.Errorf("object %s already exists", path)
	}
	s.objects[path] = body
	s.types[path] = contentType
	return nil
}

func (s *fakeObjectStorage) SignURL(ctx context.Context, namespace models.FileNamespace, path string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSign[path] {
		return "", errors.New("s3: signature service unavailable")
	}
	return fmt.Sprintf("https://s3.example/%s/%s?X-Amz-Expires=%d", namespace, filestorage.ObjectKey(namespace, path), int(ttl.Seconds())), nil
}

func (s *fakeObjectStorage) MakeBuckets(ctx context.Context) error {
	return nil
}

func (s *fakeObjectStorage) Ping(ctx context.Context) error {
	return nil
}

func containsStatus(list []models.ExpenseStatus, status models.ExpenseStatus) bool {
	for _, s := range list {
		if s == status {
			return true
		}
	}
	return false
}
