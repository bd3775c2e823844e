package storage

import (
	"mime/multipart"
)

type FileInfo struct {
	Filename    string
	ContentType string
	Size        int64
}

type Storage interface {
	SaveFile(file multipart.File, info FileInfo) (string, error)
	DeleteFile(path string) error
	FullPath(path string) (string, error)
}
