package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"presence-sync/core/reconcile"
	"presence-sync/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleReport() reconcile.PassReport {
	return reconcile.PassReport{
		ID:         "abc",
		StartedAt:  time.Date(2026, 3, 4, 23, 30, 0, 0, time.UTC),
		RosterSize: 2,
		Arrived:    []reconcile.UserID{"1", "2"},
	}
}

func objectChan(infos ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(infos))
	for _, info := range infos {
		ch <- info
	}
	close(ch)
	return ch
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "passes/2026/03/04/abc.json", ObjectName(sampleReport()))

	// Non-UTC start times are filed under their UTC day.
	report := sampleReport()
	report.StartedAt = time.Date(2026, 3, 5, 1, 0, 0, 0, time.FixedZone("CET", 2*3600))
	assert.Equal(t, "passes/2026/03/04/abc.json", ObjectName(report))
}

func TestEnsureBucket(t *testing.T) {
	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "b").Return(true, nil)

		require.NoError(t, NewRecorder(client, "b", nil, 0).EnsureBucket(context.Background()))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "b").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "b", mock.Anything).Return(nil)

		require.NoError(t, NewRecorder(client, "b", nil, 0).EnsureBucket(context.Background()))
		client.AssertExpectations(t)
	})

	t.Run("Error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "b").Return(false, errors.New("denied"))

		assert.ErrorContains(t, NewRecorder(client, "b", nil, 0).EnsureBucket(context.Background()), "denied")
	})
}

func TestRecord(t *testing.T) {
	client := new(mocks.Client)
	var body []byte
	client.On("PutObject", mock.Anything, "b", "passes/2026/03/04/abc.json", mock.Anything, mock.Anything, mock.MatchedBy(func(o minio.PutObjectOptions) bool {
		return o.ContentType == "application/json"
	})).Run(func(args mock.Arguments) {
		body, _ = io.ReadAll(args.Get(3).(io.Reader))
	}).Return(minio.UploadInfo{}, nil)

	require.NoError(t, NewRecorder(client, "b", nil, 0).Record(context.Background(), sampleReport()))

	var decoded reconcile.PassReport
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "abc", decoded.ID)
	assert.Equal(t, []reconcile.UserID{"1", "2"}, decoded.Arrived)
}

func TestHookAndRun(t *testing.T) {
	client := new(mocks.Client)
	uploaded := make(chan string, 4)
	client.On("PutObject", mock.Anything, "b", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { uploaded <- args.String(2) }).
		Return(minio.UploadInfo{}, nil)

	rec := NewRecorder(client, "b", zap.NewNop(), 1)
	hook := rec.Hook()

	hook(sampleReport())
	second := sampleReport()
	second.ID = "dropped"
	hook(second)
	assert.Equal(t, uint64(1), rec.Dropped())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rec.Run(ctx)

	select {
	case name := <-uploaded:
		assert.Equal(t, "passes/2026/03/04/abc.json", name)
	case <-time.After(2 * time.Second):
		t.Fatal("report was not uploaded")
	}
}

func TestList(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "b", mock.MatchedBy(func(o minio.ListObjectsOptions) bool {
		return o.Prefix == "passes/2026/03/04/" && o.Recursive
	})).Return(objectChan(
		minio.ObjectInfo{Key: "passes/2026/03/04/c.json"},
		minio.ObjectInfo{Key: "passes/2026/03/04/a.json"},
		minio.ObjectInfo{Key: "passes/2026/03/04/b.json"},
	))

	rec := NewRecorder(client, "b", nil, 0)
	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	names, err := rec.List(context.Background(), day, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"passes/2026/03/04/b.json", "passes/2026/03/04/c.json"}, names)
}

func TestList_Error(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "b", mock.Anything).
		Return(objectChan(minio.ObjectInfo{Err: errors.New("no such bucket")}))

	_, err := NewRecorder(client, "b", nil, 0).List(context.Background(), time.Now(), 0)
	assert.ErrorContains(t, err, "no such bucket")
}

func TestHandleListPasses(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "b", mock.Anything).
		Return(objectChan(minio.ObjectInfo{Key: "passes/2026/03/04/a.json"}))

	app := fiber.New()
	require.NoError(t, NewFeature(NewRecorder(client, "b", nil, 0), zap.NewNop()).Load(app))

	resp, err := app.Test(httptest.NewRequest("GET", "/archive/passes?date=2026-03-04", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "2026-03-04", body["date"])
	assert.Equal(t, []any{"passes/2026/03/04/a.json"}, body["objects"])

	resp, err = app.Test(httptest.NewRequest("GET", "/archive/passes?date=yesterday", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestFeature(t *testing.T) {
	f := NewFeature(nil, zap.NewNop())
	assert.Equal(t, "archive", f.Name())
	assert.False(t, f.IsEnabled())

	f = NewFeature(NewRecorder(new(mocks.Client), "b", nil, 0), zap.NewNop())
	assert.True(t, f.IsEnabled())
}
