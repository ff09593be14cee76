package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3ImageStorePut(t *testing.T) {
	putter := &fakePutter{}
	store := &S3ImageStore{
		client: putter,
		bucket: "meal-images",
		urlFor: func(key string) string { return "https://cdn.test/" + key },
	}

	url, err := store.Put(context.Background(), "meals/1/a.png", "image/png", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/meals/1/a.png", url)
	assert.Equal(t, "meal-images", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "meals/1/a.png", aws.ToString(putter.input.Key))
	assert.Equal(t, "image/png", aws.ToString(putter.input.ContentType))
	assert.Equal(t, []byte("data"), putter.body)
}

func TestS3ImageStorePutError(t *testing.T) {
	cause := errors.New("access denied")
	store := &S3ImageStore{client: &fakePutter{err: cause}, bucket: "b", urlFor: func(string) string { return "" }}

	_, err := store.Put(context.Background(), "k", "image/png", []byte("data"))
	assert.ErrorIs(t, err, cause)
}
