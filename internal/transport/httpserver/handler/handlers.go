package handler

import (
	directorydomain "directory-app-go/internal/domain/directory"
	"directory-app-go/pkg/logger"
)

// uploadOverhead leaves room for multipart boundaries and form fields around the file itself.
const uploadOverhead = 1 << 20

type Handlers struct {
	Directory      *directorydomain.Service
	log            logger.Logger
	maxUploadBytes int64
}

func New(directory *directorydomain.Service, maxUploadBytes int64, log logger.Logger) *Handlers {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handlers{
		Directory:      directory,
		log:            log,
		maxUploadBytes: maxUploadBytes,
	}
}
