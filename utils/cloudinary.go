package utils

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// PhotoUploader stores doctor photos on Cloudinary.
type PhotoUploader struct {
	cld          *cloudinary.Cloudinary
	uploadPreset string
	folder       string
}

func NewPhotoUploader(cloudName, apiKey, apiSecret, uploadPreset string) (*PhotoUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &PhotoUploader{cld: cld, uploadPreset: uploadPreset, folder: "medcare/doctors"}, nil
}

// Upload sends file (a path, URL or io.Reader) and returns its secure URL.
func (u *PhotoUploader) Upload(ctx context.Context, file interface{}, publicID string) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         u.folder,
		UploadPreset:   u.uploadPreset,
		Transformation: "c_thumb,w_200,h_200",
	})
	if err != nil {
		return "", err
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}
