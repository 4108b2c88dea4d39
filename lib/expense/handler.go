package expensehandler

import (
	"context"
	"expense-approval-backend/config"
	"expense-approval-backend/db"
	attachmenturl "expense-approval-backend/lib/attachment-url"
	expenseflow "expense-approval-backend/lib/expense-flow"
	expensestore "expense-approval-backend/lib/expense/store"
	filestorage "expense-approval-backend/lib/file-storage"
	filesdbstorage "expense-approval-backend/lib/file-storage/storage"
	"expense-approval-backend/lib/rbac"
	apperrors "expense-approval-backend/lib/utils/app-errors"
	"expense-approval-backend/lib/utils/helpers"
	"expense-approval-backend/lib/utils/metrics"
	"expense-approval-backend/models"
	expenseapimodels "expense-approval-backend/models/api/expense"
	dbmodels "expense-approval-backend/models/db"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Provider interface {
	Create(identity models.Identity, data expenseapimodels.ExpenseCreateData) (expenseapimodels.ExpenseView, error)
	ListMine(identity models.Identity) ([]expenseapimodels.ExpenseView, error)
	ListAll(identity models.Identity) ([]expenseapimodels.ExpenseView, error)
	ListForAccounting(identity models.Identity) ([]expenseapimodels.ExpenseView, error)
	ListVisible(identity models.Identity) ([]expenseapimodels.ExpenseView, error)
	GetDetail(ctx context.Context, identity models.Identity, id string) (expenseapimodels.ExpenseDetailView, error)
	AttachFiles(ctx context.Context, identity models.Identity, id string, files []models.UploadFile) ([]expenseapimodels.UploadResult, error)
	Transition(identity models.Identity, id string, next models.ExpenseStatus, comment *string) (expenseapimodels.ExpenseView, error)
	SignFileURL(ctx context.Context, identity models.Identity, expenseID, fileID string) (expenseapimodels.SignedUrlView, error)
}

var Instance Provider

type Options struct {
	DetailOwnerScoped bool
	AttachOwnerOnly   bool
	AttachOnlyCreated bool
	MaxFileSize       int64
	UploadConcurrency int
}

func NewHandler() {
	Instance = NewInstance(
		expensestore.NewInstance(db.DB),
		filesdbstorage.NewInstance(db.DB),
		filestorage.Instance,
		attachmenturl.Instance,
		Options{
			DetailOwnerScoped: *config.Conf.Expense.DetailOwnerScoped,
			AttachOwnerOnly:   *config.Conf.Expense.AttachOwnerOnly,
			AttachOnlyCreated: *config.Conf.Expense.AttachOnlyCreated,
			MaxFileSize:       config.Conf.Expense.MaxFileSizeMb * 1024 * 1024,
			UploadConcurrency: config.Conf.Expense.SignConcurrency,
		})
}

func NewInstance(store expensestore.Provider, filesStore filesdbstorage.Provider, storage filestorage.Provider,
	composer attachmenturl.Provider, options Options) Provider {
	if options.UploadConcurrency <= 0 {
		options.UploadConcurrency = 4
	}
	return impl{
		store:      store,
		filesStore: filesStore,
		storage:    storage,
		composer:   composer,
		options:    options,
	}
}

type impl struct {
	store      expensestore.Provider
	filesStore filesdbstorage.Provider
	storage    filestorage.Provider
	composer   attachmenturl.Provider
	options    Options
}

func (i impl) getLogger(expenseID, userID string) *log.Entry {
	logger := log.WithField("user_id", userID)
	if expenseID != "" {
		logger = logger.WithField("expense_id", expenseID)
	}
	return logger
}

func (i impl) Create(identity models.Identity, data expenseapimodels.ExpenseCreateData) (expenseapimodels.ExpenseView, error) {
	if err := rbac.Require(&identity, models.ExpenseModule, models.CreatePermission); err != nil {
		return expenseapimodels.ExpenseView{}, err
	}
	if err := data.Validate(); err != nil {
		return expenseapimodels.ExpenseView{}, err
	}
	rec := dbmodels.Expense{
		Title:       strings.TrimSpace(data.Title),
		Comment:     data.Comment,
		Status:      models.ExpenseStatusCreated,
		EmployeeID:  identity.ID,
		SubmittedAt: time.Now(),
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return expenseapimodels.ExpenseView{}, errors.Wrap(err, "ошибка создания заявки")
	}
	i.getLogger(id, identity.ID).Info("создана заявка на возмещение")
	return i.getView(id)
}

func (i impl) ListMine(identity models.Identity) ([]expenseapimodels.ExpenseView, error) {
	if err := rbac.Require(&identity, models.ExpenseModule, models.ViewOwnPermission); err != nil {
		return nil, err
	}
	return i.list(expensestore.ListFilter{EmployeeID: identity.ID})
}

func (i impl) ListAll(identity models.Identity) ([]expenseapimodels.ExpenseView, error) {
	if err := rbac.Require(&identity, models.ExpenseModule, models.ViewAllPermission); err != nil {
		return nil, err
	}
	return i.list(expensestore.ListFilter{})
}

func (i impl) ListForAccounting(identity models.Identity) ([]expenseapimodels.ExpenseView, error) {
	if err := rbac.Require(&identity, models.ExpenseModule, models.ViewAccountingPermission); err != nil {
		return nil, err
	}
	return i.list(expensestore.ListFilter{Statuses: models.AccountingStatuses})
}

// ListVisible - список по области видимости роли
func (i impl) ListVisible(identity models.Identity) ([]expenseapimodels.ExpenseView, error) {
	if err := rbac.Require(&identity, models.ExpenseModule, models.ViewPermission); err != nil {
		return nil, err
	}
	scope := rbac.VisibleScope(identity.Role)
	switch scope.Kind {
	case rbac.ScopeAll:
		return i.list(expensestore.ListFilter{})
	case rbac.ScopeStatusIn:
		return i.list(expensestore.ListFilter{Statuses: scope.Statuses})
	case rbac.ScopeOwn:
		return i.list(expensestore.ListFilter{EmployeeID: identity.ID})
	}
	return nil, apperrors.NewForbidden(rbac.MsgForbidden)
}

func (i impl) GetDetail(ctx context.Context, identity models.Identity, id string) (expenseapimodels.ExpenseDetailView, error) {
	if err := rbac.Require(&identity, models.ExpenseModule, models.ViewPermission); err != nil {
		return expenseapimodels.ExpenseDetailView{}, err
	}
	rec, err := i.getExpense(id)
	if err != nil {
		return expenseapimodels.ExpenseDetailView{}, err
	}
	if err = i.checkDetailScope(identity, *rec); err != nil {
		return expenseapimodels.ExpenseDetailView{}, err
	}
	files, err := i.filesStore.GetFileList(id)
	if err != nil {
		return expenseapimodels.ExpenseDetailView{}, errors.Wrap(err, "ошибка получения файлов заявки")
	}
	return i.composer.ComposeDetail(ctx, *rec, files), nil
}

func (i impl) SignFileURL(ctx context.Context, identity models.Identity, expenseID, fileID string) (expenseapimodels.SignedUrlView, error) {
	if err := rbac.Require(&identity, models.ExpenseModule, models.ViewPermission); err != nil {
		return expenseapimodels.SignedUrlView{}, err
	}
	rec, err := i.getExpense(expenseID)
	if err != nil {
		return expenseapimodels.SignedUrlView{}, err
	}
	if err = i.checkDetailScope(identity, *rec); err != nil {
		return expenseapimodels.SignedUrlView{}, err
	}
	file, err := i.filesStore.GetFile(expenseID, fileID)
	if err != nil {
		return expenseapimodels.SignedUrlView{}, errors.Wrap(err, "ошибка получения файла")
	}
	if file == nil {
		return expenseapimodels.SignedUrlView{}, apperrors.NewNotFound("файл не найден")
	}
	return i.composer.SignFile(ctx, *file), nil
}

func (i impl) Transition(identity models.Identity, id string, next models.ExpenseStatus, comment *string) (result expenseapimodels.ExpenseView, err error) {
	defer func() {
		metrics.ExpenseTransitions.WithLabelValues(string(next), transitionResult(err)).Inc()
	}()
	logger := i.getLogger(id, identity.ID).WithField("status", next)

	if err = rbac.Check(&identity, rbac.Authenticated(), rbac.FirstLoginPassed()); err != nil {
		return expenseapimodels.ExpenseView{}, err
	}
	if !next.IsValid() || !next.IsRequestable() {
		return expenseapimodels.ExpenseView{}, apperrors.NewFieldValidation("status", "переход в этот статус невозможен")
	}
	if err = rbac.Check(&identity, rbac.Allowed(models.ExpenseModule, expenseflow.RequiredPermission(next))); err != nil {
		return expenseapimodels.ExpenseView{}, err
	}
	// статус всегда читается из БД, переданному клиентом состоянию не доверяем
	rec, err := i.getExpense(id)
	if err != nil {
		return expenseapimodels.ExpenseView{}, err
	}
	if err = rbac.Check(&identity, expenseflow.Edge(rec.Status, next)); err != nil {
		logger.WithField("current_status", rec.Status).Info("переход заявки запрещен")
		return expenseapimodels.ExpenseView{}, err
	}

	updMap := map[string]interface{}{
		"status":     next,
		"updated_at": time.Now(),
	}
	if comment != nil {
		updMap["comment"] = *comment
		switch identity.Role {
		case models.ManagerRole:
			updMap["manager_comment"] = *comment
		case models.AccountingRole:
			updMap["accounting_comment"] = *comment
		}
	}
	updated, err := i.store.UpdateStatus(id, rec.Status, updMap)
	if err != nil {
		return expenseapimodels.ExpenseView{}, errors.Wrap(err, "ошибка смены статуса заявки")
	}
	if !updated {
		current, err := i.store.GetByID(id)
		if err != nil {
			return expenseapimodels.ExpenseView{}, errors.Wrap(err, "ошибка получения заявки")
		}
		if current == nil {
			return expenseapimodels.ExpenseView{}, apperrors.NewNotFound("заявка не найдена")
		}
		logger.WithField("current_status", current.Status).Warn("статус заявки изменился во время перехода")
		return expenseapimodels.ExpenseView{}, apperrors.NewConflict(
			fmt.Sprintf("статус заявки уже изменен на \"%s\"", current.Status.ToHuman()))
	}
	logger.WithField("from", rec.Status).Info("статус заявки изменен")
	return i.getView(id)
}

func (i impl) AttachFiles(ctx context.Context, identity models.Identity, id string, files []models.UploadFile) ([]expenseapimodels.UploadResult, error) {
	if err := rbac.Require(&identity, models.ExpenseModule, models.FilesPermission); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, apperrors.NewFieldValidation("files", "не выбраны файлы")
	}
	rec, err := i.getExpense(id)
	if err != nil {
		return nil, err
	}
	if i.options.AttachOwnerOnly && rec.EmployeeID != identity.ID {
		return nil, apperrors.NewForbidden("прикреплять файлы может только автор заявки")
	}
	if i.options.AttachOnlyCreated && rec.Status != models.ExpenseStatusCreated {
		return nil, apperrors.NewForbidden("прикреплять файлы можно только к новой заявке")
	}

	logger := i.getLogger(id, identity.ID)
	results := make([]expenseapimodels.UploadResult, len(files))
	errs := make([]error, len(files))
	g := errgroup.Group{}
	g.SetLimit(i.options.UploadConcurrency)
	for idx, file := range files {
		g.Go(func() error {
			fileID, err := i.uploadOne(ctx, id, file)
			results[idx] = expenseapimodels.UploadResult{FileName: file.FileName}
			if err != nil {
				errs[idx] = err
				results[idx].Error = apperrors.UserMessage(err, "не удалось сохранить файл")
				metrics.UploadedFiles.WithLabelValues(string(models.ReceiptsNamespace), metrics.ResultError).Inc()
				logger.WithError(err).WithField("file_name", file.FileName).Warn("ошибка загрузки файла заявки")
				return nil
			}
			results[idx].ID = &fileID
			metrics.UploadedFiles.WithLabelValues(string(models.ReceiptsNamespace), metrics.ResultSuccess).Inc()
			return nil
		})
	}
	_ = g.Wait()

	if failed := countErrors(errs); failed == len(files) {
		for _, err := range errs {
			if apperrors.KindOf(err) == apperrors.KindUpstream {
				return results, apperrors.NewUpstream(err, "не удалось сохранить файлы")
			}
		}
		return results, errs[0]
	}
	return results, nil
}

// uploadOne сначала кладет файл в хранилище, затем создает запись, так что запись не ссылается на отсутствующий файл
func (i impl) uploadOne(ctx context.Context, expenseID string, file models.UploadFile) (string, error) {
	if i.options.MaxFileSize > 0 && file.Size > i.options.MaxFileSize {
		return "", apperrors.NewValidation(fmt.Sprintf("размер файла превышает допустимый (%d байт)", i.options.MaxFileSize))
	}
	if file.Size <= 0 {
		return "", apperrors.NewValidation("пустой файл")
	}
	reader, err := file.Open()
	if err != nil {
		return "", errors.Wrap(err, "ошибка чтения файла")
	}
	defer reader.Close()

	body, contentType, err := helpers.SniffReader(reader, file.DeclaredType)
	if err != nil {
		return "", err
	}

	path := helpers.BuildStoragePath(expenseID, file.FileName, time.Now())
	err = i.storage.Upload(ctx, models.ReceiptsNamespace, path, body, file.Size, contentType)
	if err != nil {
		return "", err
	}
	return i.filesStore.SaveFile(dbmodels.ExpenseFile{
		ExpenseID:   expenseID,
		StoragePath: path,
		MimeType:    contentType,
		FileName:    file.FileName,
		SizeBytes:   file.Size,
	})
}

func (i impl) getExpense(id string) (*dbmodels.Expense, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения заявки")
	}
	if rec == nil {
		return nil, apperrors.NewNotFound("заявка не найдена")
	}
	return rec, nil
}

func (i impl) getView(id string) (expenseapimodels.ExpenseView, error) {
	rec, err := i.getExpense(id)
	if err != nil {
		return expenseapimodels.ExpenseView{}, err
	}
	return expenseapimodels.ExpenseConvert(*rec), nil
}

func (i impl) list(filter expensestore.ListFilter) ([]expenseapimodels.ExpenseView, error) {
	list, err := i.store.List(filter)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка заявок")
	}
	result := make([]expenseapimodels.ExpenseView, 0, len(list))
	for _, rec := range list {
		result = append(result, expenseapimodels.ExpenseConvert(rec))
	}
	return result, nil
}

// checkDetailScope - карточка по умолчанию доступна любому авторизованному пользователю
func (i impl) checkDetailScope(identity models.Identity, rec dbmodels.Expense) error {
	if !i.options.DetailOwnerScoped || rec.EmployeeID == identity.ID {
		return nil
	}
	scope := rbac.VisibleScope(identity.Role)
	switch scope.Kind {
	case rbac.ScopeAll:
		return nil
	case rbac.ScopeStatusIn:
		if slices.Contains(scope.Statuses, rec.Status) {
			return nil
		}
	}
	return apperrors.NewForbidden("нет доступа к заявке")
}

func transitionResult(err error) string {
	switch apperrors.KindOf(err) {
	case "":
		return metrics.ResultSuccess
	case apperrors.KindForbidden:
		return metrics.ResultForbidden
	case apperrors.KindConflict:
		return metrics.ResultConflict
	case apperrors.KindNotFound:
		return metrics.ResultNotFound
	}
	return metrics.ResultError
}

func countErrors(errs []error) int {
	count := 0
	for _, err := range errs {
		if err != nil {
			count++
		}
	}
	return count
}
