package services

import (
	"io"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/enums"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/interfaces"
)

// FileManagerService sits between the message-send path and whatever blob
// store backs attachments. A nil fileManager means uploads are disabled.
type FileManagerService struct {
	fileManager interfaces.FileManager
}

func NewFileManagerService(fileManager interfaces.FileManager) *FileManagerService {
	return &FileManagerService{
		fileManager: fileManager,
	}
}

// UploadChatAttachment stores one attachment and returns its public URL.
func (fs *FileManagerService) UploadChatAttachment(fileName string, file io.Reader, fileSize int64, contentType string) (string, error) {
	if fs.fileManager == nil {
		return "", errs.ErrStorageNotReady
	}
	return fs.fileManager.UploadFile(fileName, file, fileSize, contentType, enums.FILE_BUCKET_CHAT_ATTACHMENTS)
}
