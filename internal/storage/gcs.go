package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage 把上传文件保存在 Google Cloud Storage
type GCSStorage struct {
	client     *storage.Client
	bucketName string
}

func NewGCSStorage(bucketName, credentialsFile string) (*GCSStorage, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}

	return &GCSStorage{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (s *GCSStorage) UploadFile(file *multipart.FileHeader, path string) (string, error) {
	ctx := context.Background()
	obj := s.client.Bucket(s.bucketName).Object(path)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	writer := obj.NewWriter(ctx)
	if _, err = io.Copy(writer, src); err != nil {
		writer.Close()
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, path), nil
}

func (s *GCSStorage) DeleteFile(path string) error {
	ctx := context.Background()
	err := s.client.Bucket(s.bucketName).Object(path).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		return nil
	}
	return err
}
