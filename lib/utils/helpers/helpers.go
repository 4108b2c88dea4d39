package helpers

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const sniffLen = 3072

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SafeFileName оставляет в имени файла только символы, безопасные для ключа в хранилище
func SafeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFileChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	if len(name) > 100 {
		ext := filepath.Ext(name)
		if len(ext) > 20 {
			ext = ""
		}
		name = name[:100-len(ext)] + ext
	}
	return name
}

// BuildStoragePath - уникальный путь загрузки: <prefix>/<время>-<uuid>-<имя>
func BuildStoragePath(prefix, fileName string, now time.Time) string {
	return fmt.Sprintf("%s/%d-%s-%s", prefix, now.UnixNano(), uuid.NewString(), SafeFileName(fileName))
}

// DetectContentType определяет тип по содержимому, заявленный клиентом тип используется только если сигнатура не распознана
func DetectContentType(head []byte, declared string) string {
	detected := mimetype.Detect(head)
	if detected.Is("application/octet-stream") && declared != "" {
		return declared
	}
	if declared != "" && strings.HasPrefix(detected.String(), "text/plain") && !strings.HasPrefix(declared, "text/") {
		return declared
	}
	return detected.String()
}

func IsImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// SniffReader читает начало потока для определения типа и возвращает поток целиком
func SniffReader(r io.Reader, declared string) (io.Reader, string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", errors.Wrap(err, "ошибка чтения файла")
	}
	head = head[:n]
	return io.MultiReader(bytes.NewReader(head), r), DetectContentType(head, declared), nil
}
