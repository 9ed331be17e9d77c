package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amazighishop/shop_api/internal/utils"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func TestInspect(t *testing.T) {
	ct, ext, err := Inspect(pngBytes)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, ".png", ext)

	_, _, err = Inspect([]byte("GIF89a" + strings.Repeat("\x00", 16)))
	assert.NoError(t, err)

	_, _, err = Inspect([]byte("#!/bin/sh\necho hi\n"))
	assert.ErrorIs(t, err, utils.ErrInvalidImage)

	_, _, err = Inspect(nil)
	assert.ErrorIs(t, err, utils.ErrInvalidImage)

	big := append(append([]byte{}, pngBytes...), make([]byte, MaxImageSize)...)
	_, _, err = Inspect(big)
	assert.ErrorIs(t, err, utils.ErrInvalidImage)
}

func TestLocalStore_SaveAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/storage/")
	require.NoError(t, err)

	rel, err := store.Save(context.Background(), "produits", pngBytes)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "produits/"))
	assert.True(t, strings.HasSuffix(rel, ".png"))
	assert.Equal(t, "/storage/"+rel, store.URL(rel))

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)

	require.NoError(t, store.Delete(context.Background(), rel))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(context.Background(), rel))
}

func TestLocalStore_DeleteStaysInRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "public")
	store, err := NewLocalStore(root, "/storage")
	require.NoError(t, err)

	outside := filepath.Join(parent, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	require.NoError(t, store.Delete(context.Background(), "../secret.txt"))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    []byte
	deleted string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = in
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(in.Body)
	f.body = buf.Bytes()
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = *in.Key
	return &s3.DeleteObjectOutput{}, f.err
}

func TestS3Store_Save(t *testing.T) {
	fake := &fakeS3{}
	store := newS3Store(fake, "shop-images", "https://cdn.shop.tn/")

	key, err := store.Save(context.Background(), "produits", pngBytes)
	require.NoError(t, err)
	require.NotNil(t, fake.put)
	assert.Equal(t, "shop-images", *fake.put.Bucket)
	assert.Equal(t, key, *fake.put.Key)
	assert.Equal(t, "image/png", *fake.put.ContentType)
	assert.Equal(t, pngBytes, fake.body)
	assert.Equal(t, "https://cdn.shop.tn/"+key, store.URL(key))

	require.NoError(t, store.Delete(context.Background(), key))
	assert.Equal(t, key, fake.deleted)
}

func TestS3Store_SaveError(t *testing.T) {
	store := newS3Store(&fakeS3{err: errors.New("denied")}, "b", "https://x")
	_, err := store.Save(context.Background(), "produits", pngBytes)
	assert.Error(t, err)
}
