package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/dto"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/storage"
)

// ErrStorageUnavailable 对象存储调用失败
var ErrStorageUnavailable = errors.New("object storage is unavailable")

// UploadService 预签名上传业务接口
//
// 两类上传的 target_id 都是研讨厅 ID：
//   - hall：封面图，仅院系 HOD 或该厅技术人员
//   - booking：预约附件（许可函），任何已认证用户
type UploadService interface {
	Presign(ctx context.Context, req *dto.PresignUploadRequest, actorID string) (*storage.PresignedUpload, error)
	Delete(ctx context.Context, fileURL, actorID string) error
}

type uploadService struct {
	repo   *repository.Repository
	store  storage.ObjectStore
	now    func() time.Time
	logger *zap.Logger
}

// NewUploadService 创建 UploadService 实例
func NewUploadService(repo *repository.Repository, store storage.ObjectStore, logger *zap.Logger) UploadService {
	return &uploadService{repo: repo, store: store, now: time.Now, logger: logger}
}

func (s *uploadService) Presign(ctx context.Context, req *dto.PresignUploadRequest, actorID string) (*storage.PresignedUpload, error) {
	// 类别、类型与大小在任何 I/O 之前校验
	if err := storage.ValidateUpload(req.Kind, req.ContentType, req.Size); err != nil {
		return nil, err
	}
	key, err := storage.BuildObjectKey(req.Kind, req.TargetID, req.FileName, req.ContentType, s.now())
	if err != nil {
		return nil, err
	}

	hall, err := s.repo.Hall.GetByID(ctx, req.TargetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	if req.Kind == storage.KindHall && !managesHall(hall, actorID) {
		return nil, ErrNotHallManager
	}

	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	signed, err := s.store.PresignUpload(ctx, key, req.ContentType)
	if err != nil {
		s.logger.Error("生成预签名地址失败", zap.String("key", key), zap.Error(err))
		return nil, ErrStorageUnavailable
	}

	s.logger.Info("已签发上传地址",
		zap.String("key", key),
		zap.String("kind", req.Kind),
		zap.String("profile_id", actorID),
	)
	return signed, nil
}

func (s *uploadService) Delete(ctx context.Context, fileURL, actorID string) error {
	if s.store == nil {
		return ErrStorageUnavailable
	}
	if err := s.store.DeleteByURL(ctx, fileURL); err != nil {
		if errors.Is(err, storage.ErrForeignURL) {
			return err
		}
		s.logger.Error("删除对象失败", zap.String("url", fileURL), zap.Error(err))
		return ErrStorageUnavailable
	}
	s.logger.Info("对象已删除", zap.String("url", fileURL), zap.String("profile_id", actorID))
	return nil
}
