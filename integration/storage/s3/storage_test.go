package s3_test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/psfs/integration/storage/s3"
)

type object struct {
	data []byte
	meta map[string]string
}

type fakeClient struct {
	mu      sync.Mutex
	objects map[string]object
}

func newFakeClient() *fakeClient {
	return &fakeClient{objects: make(map[string]object)}
}

func (f *fakeClient) PutObject(_ context.Context, in *s3aws.PutObjectInput, _ ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = object{data: data, meta: in.Metadata}
	return &s3aws.PutObjectOutput{}, nil
}

func (f *fakeClient) GetObject(_ context.Context, in *s3aws.GetObjectInput, _ ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3aws.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(obj.data)), Metadata: obj.meta}, nil
}

func (f *fakeClient) DeleteObject(_ context.Context, in *s3aws.DeleteObjectInput, _ ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3aws.DeleteObjectOutput{}, nil
}

func (f *fakeClient) ListObjectsV2(_ context.Context, in *s3aws.ListObjectsV2Input, _ ...func(*s3aws.Options)) (*s3aws.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := &s3aws.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	prefix := aws.ToString(in.Prefix)
	for k := range f.objects {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
		}
	}
	return out, nil
}

func (f *fakeClient) DeleteObjects(_ context.Context, in *s3aws.DeleteObjectsInput, _ ...func(*s3aws.Options)) (*s3aws.DeleteObjectsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range in.Delete.Objects {
		delete(f.objects, aws.ToString(id.Key))
	}
	return &s3aws.DeleteObjectsOutput{}, nil
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := s3.New(context.Background(), s3.Config{Region: "us-east-1"}, s3.WithClient(newFakeClient()))
	assert.ErrorIs(t, err, s3.ErrInvalidConfig)
}

func TestStorage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newFakeClient()
	st, err := s3.New(ctx, s3.Config{Bucket: "b", Region: "us-east-1", Prefix: "/cache/"}, s3.WithClient(client))
	require.NoError(t, err)

	t.Run("put and get", func(t *testing.T) {
		require.NoError(t, st.Put(ctx, "json/a/b1", []byte("hello"), map[string]string{"k": "v"}))

		data, meta, err := st.Get(ctx, "json/a/b1")
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
		assert.Equal(t, "v", meta["k"])

		_, ok := client.objects["cache/json/a/b1"]
		assert.True(t, ok, "prefix is applied to object keys")
	})

	t.Run("missing object", func(t *testing.T) {
		_, _, err := st.Get(ctx, "json/none")
		assert.ErrorIs(t, err, s3.ErrNotFound)
	})

	t.Run("invalid key", func(t *testing.T) {
		err := st.Put(ctx, "../escape", nil, nil)
		assert.ErrorIs(t, err, s3.ErrInvalidKey)
	})

	t.Run("delete prefix", func(t *testing.T) {
		require.NoError(t, st.Put(ctx, "json/x/1", []byte("1"), nil))
		require.NoError(t, st.Put(ctx, "json/x/2", []byte("2"), nil))
		require.NoError(t, st.DeletePrefix(ctx, "json/x/"))

		_, _, err := st.Get(ctx, "json/x/1")
		assert.ErrorIs(t, err, s3.ErrNotFound)
		_, _, err = st.Get(ctx, "json/a/b1")
		assert.NoError(t, err)
	})
}
