package services

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
)

// JournalImageFolder is where journal images are stored in Cloudinary.
const JournalImageFolder = "journal/images"

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string) (string, error)
}

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryService(cloudName, apiKey, apiSecret string) (*CloudinaryService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, errors.Wrap(err, "init cloudinary")
	}
	return &CloudinaryService{cld: cld}, nil
}

func (s *CloudinaryService) Upload(ctx context.Context, file io.Reader, folder string) (string, error) {
	res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", errors.Wrap(err, "cloudinary upload")
	}
	if res.Error.Message != "" {
		return "", errors.New("cloudinary upload: " + res.Error.Message)
	}
	return res.SecureURL, nil
}

// UploadService uploads journal images. A nil uploader means uploads are
// not configured.
type UploadService struct {
	uploader Uploader
}

func NewUploadService(u Uploader) *UploadService {
	return &UploadService{uploader: u}
}

func (s *UploadService) Available() bool { return s != nil && s.uploader != nil }

// UploadImage stores the multipart file and returns its secure URL.
func (s *UploadService) UploadImage(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if !s.Available() {
		return "", ErrUploadUnavailable
	}
	f, err := header.Open()
	if err != nil {
		return "", ErrInvalidRequest
	}
	defer f.Close()

	url, err := s.uploader.Upload(ctx, f, JournalImageFolder)
	if err != nil {
		return "", &PersistenceError{Message: MsgInternalError, Err: err}
	}
	return url, nil
}
