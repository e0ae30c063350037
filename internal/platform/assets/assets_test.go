package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/phrazzld/secondchance-api/internal/config"
	"github.com/phrazzld/secondchance-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestReadImage(t *testing.T) {
	t.Parallel()

	t.Run("accepts png", func(t *testing.T) {
		up, err := readImage("My Lamp.jpeg", bytes.NewReader(pngBytes(t)), 1<<20)
		require.NoError(t, err)
		assert.Equal(t, "image/png", up.contentType)
		assert.True(t, strings.HasSuffix(up.name, "-My-Lamp.png"), up.name)
	})

	cases := map[string][]byte{
		"text":          []byte("definitely not an image"),
		"empty":         {},
		"truncated png": pngBytes(t)[:12],
	}
	for name, data := range cases {
		t.Run("rejects "+name, func(t *testing.T) {
			_, err := readImage("x.png", bytes.NewReader(data), 1<<20)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "file", verr.Fields[0].Field)
		})
	}

	t.Run("rejects oversize", func(t *testing.T) {
		data := pngBytes(t)
		_, err := readImage("x.png", bytes.NewReader(data), int64(len(data)-1))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestUniqueName(t *testing.T) {
	t.Parallel()

	a := uniqueName("../../etc/passwd", ".png")
	b := uniqueName("../../etc/passwd", ".png")
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "/")
	assert.True(t, strings.HasSuffix(a, "-passwd.png"))

	assert.True(t, strings.HasSuffix(uniqueName("???", ".gif"), "-image.gif"))
	assert.True(t, strings.HasSuffix(uniqueName(`C:\pics\cat.jpg`, ".jpg"), "-cat.jpg"))
}

func TestFilesystemStore(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "images")
	store, err := NewFilesystemStore(dir, "/images/", 1<<20, nil)
	require.NoError(t, err)

	ctx := context.Background()
	ref, err := store.Save(ctx, "lamp.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, "/images/"), ref)

	stored := filepath.Join(dir, filepath.Base(ref))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, pngBytes(t), data)

	require.NoError(t, store.Delete(ctx, ref))
	_, err = os.Stat(stored)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.NoError(t, store.Delete(ctx, ref), "deleting a missing asset is not an error")

	_, err = store.Save(ctx, "notes.txt", strings.NewReader("hello"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected uploads leave no files behind")
}

type fakeObjectAPI struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	putErr  error
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, *in.Bucket+"/"+*in.Key)
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	t.Parallel()

	api := &fakeObjectAPI{}
	store := newS3Store(api, config.S3Config{
		Bucket:        "secondchance",
		Region:        "us-east-1",
		PublicBaseURL: "https://cdn.example.com/",
	}, 1<<20, nil)

	ctx := context.Background()
	ref, err := store.Save(ctx, "lamp.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, "https://cdn.example.com/images/"), ref)

	key := strings.TrimPrefix(ref, "https://cdn.example.com/")
	assert.Equal(t, pngBytes(t), api.objects["secondchance/"+key])

	require.NoError(t, store.Delete(ctx, ref))
	assert.Equal(t, []string{"secondchance/" + key}, api.deleted)

	assert.Error(t, store.Delete(ctx, "https://elsewhere.example.com/images/x.png"))
	assert.Error(t, store.Delete(ctx, "https://cdn.example.com/private/x.png"))
}

func TestS3Store_PutFailure(t *testing.T) {
	t.Parallel()

	store := newS3Store(&fakeObjectAPI{putErr: errors.New("access denied")},
		config.S3Config{Bucket: "b", Endpoint: "http://localhost:9000"}, 1<<20, nil)

	_, err := store.Save(context.Background(), "lamp.png", bytes.NewReader(pngBytes(t)))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "http://localhost:9000/b", store.baseURL)
}
