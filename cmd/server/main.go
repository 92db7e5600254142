package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/KGLikith/Seminar-Hub-sub000/config"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/api/handler"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/api/router"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/repository"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/scheduler"
	"github.com/KGLikith/Seminar-Hub-sub000/internal/service"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/database"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/events"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/jwt"
	applogger "github.com/KGLikith/Seminar-Hub-sub000/pkg/logger"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/mailer"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/redis"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/storage"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("SEMINAR_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("timezone", cfg.Server.Timezone),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，限流、任务租约与缓存将降级", zap.Error(err))
		rdb = nil
	}

	// 5. 对象存储（可选：未配置或初始化失败时上传接口返回 502）
	var store storage.ObjectStore
	if cfg.Storage.AccessKey != "" {
		ms, err := storage.NewMinio(&cfg.Storage)
		if err != nil {
			logger.Warn("对象存储初始化失败，上传功能不可用", zap.Error(err))
		} else {
			store = ms
		}
	} else {
		logger.Warn("未配置对象存储凭据，上传功能不可用")
	}

	// 6. 邮件与领域事件
	mail := mailer.New(&cfg.Mail, logger.Named("mailer"))
	pub, err := events.New(&cfg.Events, logger.Named("events"))
	if err != nil {
		logger.Warn("事件发布器初始化失败，改为不发布", zap.Error(err))
		pub = events.NopPublisher{}
	}

	// 7. 依赖注入: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, rdb, store, mail, pub, logger)
	h := handler.NewHandler(svc, logger)

	// 8. 初始化路由
	engine, err := router.Setup(cfg, h, jwtMgr, svc.Profile, rdb, logger)
	if err != nil {
		logger.Fatal("初始化路由失败", zap.Error(err))
	}

	// 9. 启动定时任务
	ctx, stop := context.WithCancel(context.Background())
	var sup *scheduler.Supervisor
	if cfg.Cron.Enabled {
		var locker scheduler.Locker
		if rdb != nil {
			locker = rdb
		}
		sup = scheduler.New(locker, logger.Named("scheduler"))
		jobs := []scheduler.Job{
			{Name: "auto-reject", Interval: cfg.Cron.AutoRejectInterval, Run: svc.AutoTransition.AutoReject},
			{Name: "auto-complete", Interval: cfg.Cron.AutoCompleteInterval, Run: svc.AutoTransition.AutoComplete},
		}
		for _, job := range jobs {
			if err := sup.Register(job); err != nil {
				logger.Fatal("注册定时任务失败", zap.String("job", job.Name), zap.Error(err))
			}
		}
		if err := sup.Start(ctx); err != nil {
			logger.Fatal("启动定时任务失败", zap.Error(err))
		}
	}

	// 10. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // PDF 报表需要拉取远程图片
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 11. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 停止定时任务并等待当前一轮结束
	stop()
	if sup != nil {
		sup.Wait()
	}

	if err := pub.Close(); err != nil {
		logger.Warn("关闭事件发布器失败", zap.Error(err))
	}

	// 关闭数据库连接
	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
