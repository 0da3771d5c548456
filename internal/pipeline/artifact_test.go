package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coursedeck/internal/storage"
	storageMocks "coursedeck/internal/storage/mocks"
)

func TestArtifactStoreKeys(t *testing.T) {
	mockStore := new(storageMocks.MockStorage)
	store := NewArtifactStore(mockStore)

	t.Run("log upload key and metadata", func(t *testing.T) {
		mockStore.On("Put", mock.Anything, "artifacts/run-1/jobs/run-tests.log", mock.Anything,
			mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
				return opt.Metadata["job-id"] == "run-tests" && opt.Size == int64(5)
			}),
		).Return(storage.ObjectInfo{Key: "artifacts/run-1/jobs/run-tests.log"}, nil).Once()

		info, err := store.UploadLog(context.Background(), "run-1", "run-tests", []byte("hello"))
		require.NoError(t, err)
		assert.Equal(t, "artifacts/run-1/jobs/run-tests.log", info.Key)
		mockStore.AssertExpectations(t)
	})

	t.Run("report upload key", func(t *testing.T) {
		mockStore.On("Put", mock.Anything, "artifacts/run-1/report.json", mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "artifacts/run-1/report.json"}, nil).Once()

		_, err := store.UploadReport(context.Background(), &RunReport{RunID: "run-1", Workflow: "ci-cd"})
		require.NoError(t, err)
		mockStore.AssertExpectations(t)
	})

	t.Run("list uses run prefix", func(t *testing.T) {
		mockStore.On("ListPrefix", mock.Anything, "artifacts/run-1/").
			Return([]storage.ObjectInfo{{Key: "artifacts/run-1/report.json"}}, nil).Once()

		infos, err := store.List(context.Background(), "run-1")
		require.NoError(t, err)
		assert.Len(t, infos, 1)
		mockStore.AssertExpectations(t)
	})

	t.Run("presigned report url", func(t *testing.T) {
		mockStore.On("PresignGet", mock.Anything, "artifacts/run-1/report.json", time.Hour).
			Return("https://example.com/signed", nil).Once()

		url, err := store.PresignReport(context.Background(), "run-1", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/signed", url)
		mockStore.AssertExpectations(t)
	})
}
