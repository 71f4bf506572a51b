package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploadAPI struct {
	result *uploader.UploadResult
	err    error
	params uploader.UploadParams
}

func (f *fakeUploadAPI) Upload(_ context.Context, _ interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.params = params
	return f.result, f.err
}

func TestNewCloudinaryUploader_EmptyURL(t *testing.T) {
	_, err := NewCloudinaryUploader("", "cars")
	assert.Error(t, err)
}

func TestCloudinaryUploader_UploadImage(t *testing.T) {
	fake := &fakeUploadAPI{result: &uploader.UploadResult{SecureURL: "https://res.cloudinary.com/demo/image/upload/cars/KA-01.jpg"}}
	u := &CloudinaryUploader{upload: fake, folder: "cars"}

	url, err := u.UploadImage(context.Background(), strings.NewReader("jpeg"), "KA-01")
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/cars/KA-01.jpg", url)
	assert.Equal(t, "cars", fake.params.Folder)
	assert.Equal(t, "KA-01", fake.params.PublicID)
}

func TestCloudinaryUploader_Errors(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeUploadAPI
	}{
		{"transport error", &fakeUploadAPI{err: errors.New("dial tcp: timeout")}},
		{"api error", &fakeUploadAPI{result: &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}}},
		{"missing url", &fakeUploadAPI{result: &uploader.UploadResult{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &CloudinaryUploader{upload: tt.fake, folder: "cars"}
			_, err := u.UploadImage(context.Background(), strings.NewReader("x"), "id")
			assert.Error(t, err)
		})
	}
}
