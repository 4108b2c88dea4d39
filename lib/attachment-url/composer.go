package attachmenturl

import (
	"context"
	"expense-approval-backend/config"
	filestorage "expense-approval-backend/lib/file-storage"
	apperrors "expense-approval-backend/lib/utils/app-errors"
	"expense-approval-backend/lib/utils/metrics"
	"expense-approval-backend/models"
	expenseapimodels "expense-approval-backend/models/api/expense"
	dbmodels "expense-approval-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Signer - выдача временной ссылки на объект хранилища
type Signer interface {
	SignURL(ctx context.Context, namespace models.FileNamespace, path string, ttl time.Duration) (string, error)
}

type Provider interface {
	ComposeDetail(ctx context.Context, rec dbmodels.Expense, files []dbmodels.ExpenseFile) expenseapimodels.ExpenseDetailView
	SignFile(ctx context.Context, file dbmodels.ExpenseFile) expenseapimodels.SignedUrlView
	SignAvatar(ctx context.Context, path string) (url *string, expiresIn int)
}

var Instance Provider

type Settings struct {
	TTL         time.Duration
	Timeout     time.Duration
	Concurrency int
}

func NewHandler() {
	Instance = NewComposer(filestorage.Instance, Settings{
		TTL:         config.Conf.SignTTL(),
		Timeout:     config.Conf.SignTimeout(),
		Concurrency: config.Conf.Expense.SignConcurrency,
	})
}

func NewComposer(signer Signer, settings Settings) Provider {
	if settings.TTL <= 0 {
		settings.TTL = time.Hour
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 3 * time.Second
	}
	if settings.Concurrency <= 0 {
		settings.Concurrency = 8
	}
	return impl{
		signer:   signer,
		settings: settings,
	}
}

type impl struct {
	signer   Signer
	settings Settings
}

// ComposeDetail подписывает каждый файл независимо, ошибка одного файла дает url = null только у него
func (i impl) ComposeDetail(ctx context.Context, rec dbmodels.Expense, files []dbmodels.ExpenseFile) expenseapimodels.ExpenseDetailView {
	views := make([]expenseapimodels.FileView, len(files))
	g := errgroup.Group{}
	g.SetLimit(i.settings.Concurrency)
	for idx, file := range files {
		g.Go(func() error {
			url := i.signOrNil(ctx, models.ReceiptsNamespace, file.StoragePath, log.WithField("expense_id", rec.ID).WithField("file_id", file.ID))
			views[idx] = expenseapimodels.FileConvert(file, url)
			return nil
		})
	}
	_ = g.Wait()

	return expenseapimodels.ExpenseDetailView{
		ExpenseView: expenseapimodels.ExpenseConvert(rec),
		Files:       views,
	}
}

func (i impl) SignFile(ctx context.Context, file dbmodels.ExpenseFile) expenseapimodels.SignedUrlView {
	logger := log.WithField("expense_id", file.ExpenseID).WithField("file_id", file.ID)
	return expenseapimodels.SignedUrlView{
		URL:       i.signOrNil(ctx, models.ReceiptsNamespace, file.StoragePath, logger),
		ExpiresIn: i.expiresIn(),
	}
}

func (i impl) SignAvatar(ctx context.Context, path string) (url *string, expiresIn int) {
	return i.signOrNil(ctx, models.AvatarsNamespace, path, log.WithField("namespace", models.AvatarsNamespace)), i.expiresIn()
}

func (i impl) expiresIn() int {
	return int(i.settings.TTL / time.Second)
}

func (i impl) signOrNil(ctx context.Context, namespace models.FileNamespace, path string, logger *log.Entry) *string {
	url, err := i.sign(ctx, namespace, path)
	if err != nil {
		err = apperrors.NewStorageSigning(err)
		metrics.SignFailures.WithLabelValues(string(namespace)).Inc()
		logger.WithError(err).Warn("не удалось подписать ссылку на файл")
		return nil
	}
	return &url
}

// sign ограничивает время подписи, даже если хранилище не учитывает контекст
func (i impl) sign(ctx context.Context, namespace models.FileNamespace, path string) (string, error) {
	signCtx, cancel := context.WithTimeout(ctx, i.settings.Timeout)
	defer cancel()

	type result struct {
		url string
		err error
	}
	done := make(chan result, 1)
	go func() {
		url, err := i.signer.SignURL(signCtx, namespace, path, i.settings.TTL)
		done <- result{url: url, err: err}
	}()

	select {
	case res := <-done:
		return res.url, res.err
	case <-signCtx.Done():
		return "", errors.Wrap(signCtx.Err(), "превышено время ожидания подписи ссылки")
	}
}
