package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockS3 struct {
	s3iface.S3API
	mock.Mock
}

func (m *MockS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestS3Upload(t *testing.T) {
	m := new(MockS3)
	c := &S3Client{s3: m, bucket: "media"}

	m.On("PutObjectWithContext", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.StringValue(in.Bucket) == "media" &&
			aws.StringValue(in.ContentType) == "image/jpeg" &&
			aws.Int64Value(in.ContentLength) == 3
	})).Return(&s3.PutObjectOutput{}, nil)

	url, err := c.Upload(context.Background(), []byte("abc"), "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://media.s3.amazonaws.com/posts/"))
	m.AssertExpectations(t)
}

func TestS3UploadFailure(t *testing.T) {
	m := new(MockS3)
	c := &S3Client{s3: m, bucket: "media"}
	m.On("PutObjectWithContext", mock.Anything, mock.Anything).Return(nil, errors.New("denied"))

	_, err := c.Upload(context.Background(), []byte("abc"), "image/jpeg")
	assert.Error(t, err)
}
