package storage

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObject struct {
	data     []byte
	modified time.Time
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	puts    []*s3.PutObjectInput
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string]fakeObject)}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = fakeObject{data: data, modified: time.Now()}
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(obj.data))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{}
	for _, key := range keys {
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(key),
			LastModified: aws.Time(f.objects[key].modified),
		})
	}
	return out, nil
}

func TestS3Provider_SaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	p := NewS3ProviderWithClient(client, "stockman", "/exports/")

	_, err := p.Save(ctx, "id.xlsx", []byte("PK"), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	require.NoError(t, err)

	require.Len(t, client.puts, 1)
	assert.Equal(t, "exports/id.xlsx", aws.ToString(client.puts[0].Key))
	assert.Equal(t, "stockman", aws.ToString(client.puts[0].Bucket))
	assert.Equal(t, int64(2), aws.ToInt64(client.puts[0].ContentLength))

	rc, err := p.Open(ctx, "id.xlsx")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "PK", string(data))

	require.NoError(t, p.Delete(ctx, "id.xlsx"))
	_, err = p.Open(ctx, "id.xlsx")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "AWS S3", p.GetProviderName())
}

func TestS3Provider_ListBefore(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	p := NewS3ProviderWithClient(client, "stockman", "exports")

	oldKey := "5f0c6a1e-3b7d-4c2a-9e41-0d8b7f2a6c11.pdf"
	client.objects["exports/"+oldKey] = fakeObject{modified: time.Now().Add(-time.Hour)}
	client.objects["exports/9a2d4e6f-1c3b-4a5d-8e7f-2b4c6d8e0f13.pdf"] = fakeObject{modified: time.Now()}
	client.objects["exports/rapport.pdf"] = fakeObject{modified: time.Now().Add(-time.Hour)}
	client.objects["other/"+oldKey] = fakeObject{modified: time.Now().Add(-time.Hour)}

	keys, err := p.ListBefore(ctx, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{oldKey}, keys)
}
