package models

import "io"

// UploadFile - загружаемый файл, содержимое открывается по требованию
type UploadFile struct {
	FileName     string
	DeclaredType string
	Size         int64
	Open         func() (io.ReadCloser, error)
}
