package s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/mock"
)

type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) output(args mock.Arguments) (any, error) {
	return args.Get(0), args.Error(1)
}

func (m *MockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	out, err := m.output(m.Called(ctx, params))
	if out == nil {
		return nil, err
	}
	return out.(*s3.HeadObjectOutput), err
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	out, err := m.output(m.Called(ctx, params))
	if out == nil {
		return nil, err
	}
	return out.(*s3.GetObjectOutput), err
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	out, err := m.output(m.Called(ctx, params))
	if out == nil {
		return nil, err
	}
	return out.(*s3.PutObjectOutput), err
}

func (m *MockS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	out, err := m.output(m.Called(ctx, params))
	if out == nil {
		return nil, err
	}
	return out.(*s3.DeleteObjectOutput), err
}

func (m *MockS3Client) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out, err := m.output(m.Called(ctx, params))
	if out == nil {
		return nil, err
	}
	return out.(*s3.ListObjectsV2Output), err
}

func (m *MockS3Client) UploadPart(ctx context.Context, params *s3.UploadPartInput, _ ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	out, err := m.output(m.Called(ctx, params))
	if out == nil {
		return nil, err
	}
	return out.(*s3.UploadPartOutput), err
}

func (m *MockS3Client) CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	out, err := m.output(m.Called(ctx, params))
	if out == nil {
		return nil, err
	}
	return out.(*s3.CreateMultipartUploadOutput), err
}

func (m *MockS3Client) CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	out, err := m.output(m.Called(ctx, params))
	if out == nil {
		return nil, err
	}
	return out.(*s3.CompleteMultipartUploadOutput), err
}

func (m *MockS3Client) AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput, _ ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	out, err := m.output(m.Called(ctx, params))
	if out == nil {
		return nil, err
	}
	return out.(*s3.AbortMultipartUploadOutput), err
}
