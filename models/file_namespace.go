package models

// FileNamespace - логическое пространство хранилища файлов
type FileNamespace string

const (
	ReceiptsNamespace FileNamespace = "receipts"
	AvatarsNamespace  FileNamespace = "avatars"
)
