package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/diewo77/go-mairie/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueName(t *testing.T) {
	now = func() time.Time { return time.UnixMilli(1700000000123) }
	t.Cleanup(func() { now = time.Now })

	a := UniqueName("Logo.PNG")
	b := UniqueName("Logo.PNG")
	assert.NotEqual(t, a, b)
	assert.Regexp(t, regexp.MustCompile(`^1700000000123-[0-9a-f-]{36}\.png$`), a)
	assert.False(t, strings.Contains(UniqueName("noext"), "."))
}

func TestAllowedImage(t *testing.T) {
	for _, name := range []string{"a.png", "b.JPG", "c.jpeg", "d.gif", "f.webp"} {
		assert.True(t, AllowedImage(name), name)
	}
	for _, name := range []string{"a.exe", "b.pdf", "e.svg", "x.SVG", "page.html", "noext", "png"} {
		assert.False(t, AllowedImage(name), name)
	}
}

func TestDiskStore_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(filepath.Join(dir, "uploads"), PublicPrefix)
	require.NoError(t, err)
	ctx := context.Background()

	name, err := s.Save(ctx, "blason.png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))

	rc, err := s.Open(ctx, name)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "PNGDATA", string(data))

	url, err := s.URL(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+name, url)

	require.NoError(t, s.Delete(ctx, name))
	_, err = os.Stat(filepath.Join(dir, "uploads", name))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.Delete(ctx, name), "deleting a missing file is a no-op")

	_, err = s.Open(ctx, name)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiskStore_RejectsTraversal(t *testing.T) {
	s, err := NewDiskStore(t.TempDir(), PublicPrefix)
	require.NoError(t, err)
	_, err = s.Open(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, s.Delete(context.Background(), ".env"), ErrInvalidName)
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Backend: "ftp"})
	assert.Error(t, err)
}

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

type fakePresign struct{}

func (fakePresign) PresignGetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://minio.local/" + aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key) + "?X-Amz-Signature=x"}, nil
}

func TestS3Store_Lifecycle(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	s := &S3Store{bucket: "mairie", client: fake, presign: fakePresign{}}
	ctx := context.Background()

	name, err := s.Save(ctx, "logo.png", strings.NewReader("png-data"))
	require.NoError(t, err)
	assert.Contains(t, fake.objects, name)

	rc, err := s.Open(ctx, name)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "png-data", string(data))

	url, err := s.URL(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, "https://minio.local/mairie/"+name+"?X-Amz-Signature=x", url)

	require.NoError(t, s.Delete(ctx, name))
	_, err = s.Open(ctx, name)
	assert.ErrorIs(t, err, ErrNotFound)
}
