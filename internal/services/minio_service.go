package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/configs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/enums"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioService struct {
	minioClient *minio.Client
	config      *configs.Config
}

var (
	minioService *MinioService
	minioOnce    sync.Once
)

// NewMinioService connects to the object store and makes sure the chat
// attachments bucket exists. Returns nil when the store is unreachable or
// not configured; callers treat that as "uploads disabled".
func NewMinioService(config *configs.Config) *MinioService {
	minioOnce.Do(func() {
		endpoint := config.Viper.GetString("minio.endpoint")
		accessKeyID := config.Viper.GetString("minio.access_key_id")
		secretAccessKey := config.Viper.GetString("minio.secret_access_key")
		useSSL := config.Viper.GetBool("minio.use_ssl")

		if accessKeyID == "" {
			logger.Warn("object storage not configured, attachment uploads disabled")
			return
		}

		minioClient, err := minio.New(endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
			Secure: useSSL,
		})
		if err != nil {
			logger.Error("failed to connect to object storage", "endpoint", endpoint, "error", err)
			return
		}

		bucketName := enums.FILE_BUCKET_CHAT_ATTACHMENTS
		err = minioClient.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{})
		if err != nil {
			exists, errBucketExists := minioClient.BucketExists(context.Background(), bucketName)
			if errBucketExists != nil || !exists {
				logger.Error("failed to create attachments bucket", "bucket", bucketName, "error", err)
				return
			}
		}

		minioService = &MinioService{
			minioClient: minioClient,
			config:      config,
		}
	})

	return minioService
}

func (ms *MinioService) UploadFile(fileName string, file io.Reader, fileSize int64, contentType string, bucketName string) (string, error) {
	info, err := ms.minioClient.PutObject(context.Background(), bucketName, fileName, file, fileSize,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return ms.GetPublicFileUrl(bucketName, info.Key)
}

func (ms *MinioService) GetPublicFileUrl(bucketName, fileKey string) (string, error) {
	externalEndpoint := ms.config.Viper.GetString("minio.external_endpoint")
	scheme := "http"
	if ms.config.Viper.GetBool("minio.use_ssl") {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, externalEndpoint, bucketName, fileKey), nil
}
