package objectstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	data, _ := io.ReadAll(in.Body)
	f.body = string(data)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestLocal_Save(t *testing.T) {
	dir := t.TempDir()
	s := NewLocal(dir)

	loc, err := s.Save(context.Background(), "reports/r.json", "application/json", strings.NewReader(`{"score":1}`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reports", "r.json"), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, `{"score":1}`, string(data))
}

func TestLocal_RejectsEscapingKeys(t *testing.T) {
	s := NewLocal(t.TempDir())
	for _, key := range []string{"", "../x.json", "a/../../x.json"} {
		_, err := s.Save(context.Background(), key, "", strings.NewReader("x"))
		assert.Error(t, err, "key %q", key)
	}
}

func TestLocal_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocal(t.TempDir()).Save(ctx, "x.json", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestS3_Save(t *testing.T) {
	fake := &fakePutter{}
	s := newS3WithClient(fake, "bucket", "/exports/", "")

	loc, err := s.Save(context.Background(), "talentalign-report-1.json", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/exports/talentalign-report-1.json", loc)
	assert.Equal(t, "exports/talentalign-report-1.json", aws.ToString(fake.input.Key))
	assert.Equal(t, s3types.ServerSideEncryptionAes256, fake.input.ServerSideEncryption)
	assert.Equal(t, "{}", fake.body)
}

func TestS3_SaveWithKMS(t *testing.T) {
	fake := &fakePutter{}
	s := newS3WithClient(fake, "bucket", "", "key-1")

	_, err := s.Save(context.Background(), "r.json", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	assert.Equal(t, s3types.ServerSideEncryptionAwsKms, fake.input.ServerSideEncryption)
	assert.Equal(t, "key-1", aws.ToString(fake.input.SSEKMSKeyId))
}

func TestS3_SaveError(t *testing.T) {
	s := newS3WithClient(&fakePutter{err: errors.New("denied")}, "bucket", "", "")
	_, err := s.Save(context.Background(), "r.json", "application/json", strings.NewReader("{}"))
	assert.ErrorContains(t, err, "bucket=bucket")
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), "", " ", "", "")
	assert.Error(t, err)
}

func TestOpen_DefaultsToLocal(t *testing.T) {
	s, err := Open(context.Background(), Options{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, s)
}

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "r.json", want: "r.json"},
		{name: "simple prefix", prefix: "root", key: "r.json", want: "root/r.json"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/r.json", want: "root/r.json"},
		{name: "nested prefix", prefix: "root/sub", key: "r.json", want: "root/sub/r.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, applyPrefix(tt.prefix, tt.key))
		})
	}
}
