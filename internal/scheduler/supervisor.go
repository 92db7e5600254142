// Package scheduler 进程内定时任务的生命周期管理
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrAlreadyStarted = errors.New("scheduler: already started")
	ErrInvalidJob     = errors.New("scheduler: job needs a name, a positive interval and a run func")
	ErrDuplicateJob   = errors.New("scheduler: job already registered")
)

// JobFunc 单次任务执行，返回处理条数
type JobFunc func(ctx context.Context, now time.Time) (int, error)

// Job 周期任务
type Job struct {
	Name     string
	Interval time.Duration
	Run      JobFunc
}

// Locker 跨实例租约锁，由 pkg/redis.Client 实现
type Locker interface {
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (string, bool, error)
	ReleaseLock(ctx context.Context, name, token string) error
}

// Supervisor 统一持有各任务的启动与停止
//
// Register 须在 Start 之前调用；Start 只生效一次；ctx 取消后各任务退出，Wait 等待全部退出
type Supervisor struct {
	mu      sync.Mutex
	jobs    []Job
	started bool
	wg      sync.WaitGroup

	locker Locker
	now    func() time.Time
	logger *zap.Logger
}

// New 创建 Supervisor；locker 为 nil 时不做跨实例互斥
func New(locker Locker, logger *zap.Logger) *Supervisor {
	return &Supervisor{locker: locker, now: time.Now, logger: logger}
}

// Register 登记任务
func (s *Supervisor) Register(job Job) error {
	if job.Name == "" || job.Interval <= 0 || job.Run == nil {
		return ErrInvalidJob
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	for _, j := range s.jobs {
		if j.Name == job.Name {
			return ErrDuplicateJob
		}
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// Start 为每个任务启动独立的 ticker 协程；重复调用返回 ErrAlreadyStarted
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, job)
	}
	s.logger.Info("定时任务已启动", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Wait 等待所有任务协程退出
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

func (s *Supervisor) loop(ctx context.Context, job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	// 启动后立即执行一次
	s.runOnce(ctx, job)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("定时任务已停止", zap.String("job", job.Name))
			return
		case <-ticker.C:
			s.runOnce(ctx, job)
		}
	}
}

// runOnce 先取租约再执行；租约在本周期内不释放，执行失败时释放以便其他实例重试
func (s *Supervisor) runOnce(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}

	token := ""
	if s.locker != nil {
		t, ok, err := s.locker.AcquireLock(ctx, job.Name, job.Interval)
		switch {
		case err != nil:
			// Redis 不可用时按单实例继续执行
			s.logger.Warn("获取任务租约失败，降级执行", zap.String("job", job.Name), zap.Error(err))
		case !ok:
			s.logger.Debug("任务租约被其他实例持有，跳过本轮", zap.String("job", job.Name))
			return
		default:
			token = t
		}
	}

	start := s.now()
	n, err := job.Run(ctx, start)
	if err != nil {
		s.logger.Error("定时任务执行失败", zap.String("job", job.Name), zap.Error(err))
		if token != "" {
			if rerr := s.locker.ReleaseLock(ctx, job.Name, token); rerr != nil {
				s.logger.Warn("释放任务租约失败", zap.String("job", job.Name), zap.Error(rerr))
			}
		}
		return
	}

	s.logger.Debug("定时任务执行完成",
		zap.String("job", job.Name),
		zap.Int("processed", n),
		zap.Duration("elapsed", s.now().Sub(start)),
	)
}
