package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func fixed() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

func TestS3Archiver_Archive(t *testing.T) {
	client := &fakeS3{}
	a := NewS3Archiver(client, "lms-imports")
	a.now = fixed

	key, err := a.Archive(context.Background(), "../March leads.csv", []byte("Name\nA"))
	require.NoError(t, err)

	assert.Equal(t, "imports/2024-03-01/1709287200_March_leads.csv", key)
	assert.Equal(t, "lms-imports", aws.ToString(client.input.Bucket))
	assert.Equal(t, key, aws.ToString(client.input.Key))
	assert.Equal(t, "text/csv", aws.ToString(client.input.ContentType))
	assert.Equal(t, "Name\nA", string(client.body))
}

func TestS3Archiver_Error(t *testing.T) {
	a := NewS3Archiver(&fakeS3{err: errors.New("denied")}, "b")
	_, err := a.Archive(context.Background(), "x.csv", nil)
	assert.ErrorContains(t, err, "denied")
}
