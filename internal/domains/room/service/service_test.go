package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"smashroom/config"
	"smashroom/infras/otel/mocks"
	s3Mocks "smashroom/infras/s3/mocks"
	roomMocks "smashroom/internal/domains/room/mocks"
	"smashroom/internal/domains/room/model"
	"smashroom/internal/domains/room/model/dto"
	"smashroom/internal/domains/room/service"
	cacheMocks "smashroom/shared/cache/mocks"
	"smashroom/shared/constant"
	gDto "smashroom/shared/dto"
	"smashroom/shared/failure"
)

type fixture struct {
	repo  *roomMocks.MockRoom
	cache *cacheMocks.MockRedisCache
	s3    *s3Mocks.MockS3
	svc   service.Room
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.WindowOpen = "10:00"
	cfg.Booking.WindowClose = "22:00"

	f := fixture{
		repo:  roomMocks.NewMockRoom(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		s3:    s3Mocks.NewMockS3(ctrl),
	}
	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel(), f.s3)

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Incr(gomock.Any(), gomock.Any()).Return(int64(1), nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func userCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "1")
}

func TestRoomService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateRoomRequest
		setupMock func(f fixture)
		wantErr   bool
		check     func(t *testing.T, res dto.RoomResponse)
	}{
		{
			name: "defaults schedule and flags",
			req:  dto.CreateRoomRequest{Name: "Room 3", MaxPeople: 6},
			setupMock: func(f fixture) {
				f.repo.EXPECT().NextID(gomock.Any()).Return(int64(3), nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, room model.Room) error {
					assert.Equal(t, int64(3), room.ID)
					assert.Equal(t, "1", room.CreatedBy)

					return nil
				})
			},
			check: func(t *testing.T, res dto.RoomResponse) {
				assert.Equal(t, int64(3), res.ID)
				assert.True(t, res.Available)
				assert.True(t, res.IsActive)
				assert.Equal(t, model.DefaultSchedule("10:00", "22:00"), res.Schedule)
			},
		},
		{
			name: "uploads image",
			req: dto.CreateRoomRequest{
				Name:      "Room 4",
				MaxPeople: 4,
				Image:     &multipart.FileHeader{Filename: "room.png"},
			},
			setupMock: func(f fixture) {
				f.repo.EXPECT().NextID(gomock.Any()).Return(int64(4), nil)
				f.s3.EXPECT().UploadFile(gomock.Any(), model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/room/a.png", nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, res dto.RoomResponse) {
				assert.Equal(t, "https://cdn.example.com/room/a.png", res.Image)
			},
		},
		{
			name: "removes uploaded image when insert fails",
			req: dto.CreateRoomRequest{
				Name:      "Room 5",
				MaxPeople: 4,
				Image:     &multipart.FileHeader{Filename: "room.jpg"},
			},
			setupMock: func(f fixture) {
				f.repo.EXPECT().NextID(gomock.Any()).Return(int64(5), nil)
				f.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/room/b.jpg", nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
				f.s3.EXPECT().DeleteFile(gomock.Any(), model.EntityName, gomock.Any()).Return(nil)
			},
			wantErr: true,
		},
		{
			name: "sequence error",
			req:  dto.CreateRoomRequest{Name: "Room 6", MaxPeople: 4},
			setupMock: func(f fixture) {
				f.repo.EXPECT().NextID(gomock.Any()).Return(int64(0), errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(userCtx(), tt.req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			tt.check(t, res)
		})
	}
}

func TestRoomService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Room{
		{ID: 1, Name: "Room 1", MaxPeople: 8},
		{ID: 2, Name: "Room 2", MaxPeople: 8},
	}, nil)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
	assert.Len(t, res.Rooms, 2)
}

func TestRoomService_Get(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "room:get:9", gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		_, err := f.svc.Get(context.Background(), 9)

		assert.True(t, failure.IsCode(err, http.StatusNotFound))
	})

	t.Run("found", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "room:get:1", gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: 1, Name: "Room 1"}, nil)

		res, err := f.svc.Get(context.Background(), 1)

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, "Room 1", res.Name)
	})
}

func TestRoomService_Update(t *testing.T) {
	maxPeople := 10

	t.Run("replaces image and drops the old one", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: 1, Image: "https://cdn.example.com/room/old.png"}, nil)
		f.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("https://cdn.example.com/room/new.png", nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, 10, fields[model.FieldMaxPeople])
			assert.Equal(t, "https://cdn.example.com/room/new.png", fields[model.FieldImage])

			return nil
		})
		f.s3.EXPECT().GetObjectNameFromURL("https://cdn.example.com/room/old.png").Return("old.png")
		f.s3.EXPECT().DeleteFile(gomock.Any(), model.EntityName, "old.png").Return(nil)

		err := f.svc.Update(userCtx(), dto.UpdateRoomRequest{
			MaxPeople: &maxPeople,
			Image:     &multipart.FileHeader{Filename: "new.png"},
		}, 1)

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		err := f.svc.Update(userCtx(), dto.UpdateRoomRequest{MaxPeople: &maxPeople}, 42)

		assert.True(t, failure.IsCode(err, http.StatusNotFound))
	})
}

func TestRoomService_Delete(t *testing.T) {
	t.Run("deletes and removes image", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldID, model.FieldImage).
			Return(model.Room{ID: 2, Image: "https://cdn.example.com/room/two.png"}, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.s3.EXPECT().GetObjectNameFromURL(gomock.Any()).Return("two.png")
		f.s3.EXPECT().DeleteFile(gomock.Any(), model.EntityName, "two.png").Return(nil)

		err := f.svc.Delete(userCtx(), 2)

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("referenced by bookings", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Room{ID: 2}, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(failure.Conflict("room is still referenced by other records"))

		err := f.svc.Delete(userCtx(), 2)

		assert.True(t, failure.IsCode(err, http.StatusConflict))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		err := f.svc.Delete(userCtx(), 7)

		assert.True(t, failure.IsCode(err, http.StatusNotFound))
	})
}
