package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func TestLocalStore_StoreOverwritesAndRetrieves(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	url, err := store.Store(ctx, []byte("first"), "7-profile.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/profile-photos/7-profile.png", url)

	again, err := store.Store(ctx, []byte("second"), "7-profile.png")
	require.NoError(t, err)
	assert.Equal(t, url, again)

	data, err := store.Retrieve(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Store(ctx, []byte("x"), "../escape.png")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = store.Retrieve(ctx, "/uploads/profile-photos/../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = store.Retrieve(ctx, "/elsewhere/1-profile.png")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = store.Retrieve(ctx, URLPrefix+"missing.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	store := NewS3Store(fake, "photos")

	url, err := store.Store(ctx, pngHeader, "3-profile.png")
	require.NoError(t, err)
	assert.Equal(t, URLPrefix+"3-profile.png", url)
	assert.Contains(t, fake.objects, "photos/profile-photos/3-profile.png")

	data, err := store.Retrieve(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	_, err = store.Retrieve(ctx, URLPrefix+"nope.png")
	assert.ErrorIs(t, err, ErrNotFound)

	fake.putErr = errors.New("access denied")
	_, err = store.Store(ctx, pngHeader, "3-profile.png")
	assert.Error(t, err)
}

func TestSetupRoutes_ServesStoredPhoto(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	_, err = store.Store(ctx, pngHeader, "1-profile.png")
	require.NoError(t, err)

	h := SetupRoutes(store)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/1-profile.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, pngHeader, rec.Body.Bytes())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/2-profile.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
