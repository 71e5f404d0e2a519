package checks

import (
	"context"
	"errors"
	"testing"

	"presence-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func objects(infos ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(infos))
	for _, info := range infos {
		ch <- info
	}
	close(ch)
	return ch
}

func TestCheckStorage(t *testing.T) {
	t.Run("Bucket Missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "passes-bucket").Return(false, nil)

		report, err := CheckStorage(context.Background(), client, "passes-bucket", "passes")
		require.NoError(t, err)
		assert.False(t, report.BucketExists)
		assert.Equal(t, "missing", report.Status)
	})

	t.Run("Empty Bucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "b").Return(true, nil)
		client.On("ListObjects", mock.Anything, "b", mock.MatchedBy(func(o minio.ListObjectsOptions) bool {
			return o.Prefix == "passes/"
		})).Return(objects())

		report, err := CheckStorage(context.Background(), client, "b", "passes")
		require.NoError(t, err)
		assert.Equal(t, "ok", report.Status)
		assert.False(t, report.HasPasses)
	})

	t.Run("Has Passes", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "b").Return(true, nil)
		client.On("ListObjects", mock.Anything, "b", mock.Anything).
			Return(objects(minio.ObjectInfo{Key: "passes/2026/01/01/x.json"}))

		report, err := CheckStorage(context.Background(), client, "b", "passes")
		require.NoError(t, err)
		assert.True(t, report.HasPasses)
	})

	t.Run("Error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "b").Return(false, errors.New("denied"))

		_, err := CheckStorage(context.Background(), client, "b", "passes")
		assert.ErrorContains(t, err, "denied")
	})
}

func TestFixStorage(t *testing.T) {
	client := new(mocks.Client)
	client.On("MakeBucket", mock.Anything, "b", mock.Anything).Return(nil).Once()
	client.On("MakeBucket", mock.Anything, "c", mock.Anything).Return(errors.New("exists"))

	assert.NoError(t, FixStorage(context.Background(), client, "b", zap.NewNop()))
	assert.ErrorContains(t, FixStorage(context.Background(), client, "c", zap.NewNop()), "exists")
	client.AssertExpectations(t)
}
