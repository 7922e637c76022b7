package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/access"
	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/repository"
	"taskboard/internal/storage"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Apply schema migrations before opening the pool
	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("❌ failed to run migrations: %w", err)
	}

	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	fileStore, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to prepare upload dir: %w", err)
	}

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	cardRepo := repository.NewCardRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	guard := access.NewGuard(db)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, cfg.JWTSecret, cfg.CookieSecure)
	boardHandler := handler.NewBoardHandler(boardRepo, columnRepo, cardRepo, guard)
	memberHandler := handler.NewMemberHandler(memberRepo, guard)
	invitationHandler := handler.NewInvitationHandler(invitationRepo, userRepo, guard)
	columnHandler := handler.NewColumnHandler(columnRepo, guard)
	cardHandler := handler.NewCardHandler(cardRepo, guard)
	commentHandler := handler.NewCommentHandler(commentRepo, guard)
	attachmentHandler := handler.NewAttachmentHandler(attachmentRepo, fileStore, guard)

	// Public routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.POST("/logout", userHandler.Logout)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		authorized.GET("/me", userHandler.Me)

		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)

		// Membership routes
		authorized.GET("/boards/:id/members", memberHandler.GetByBoardID)
		authorized.DELETE("/boards/:id/members/:user_id", memberHandler.Remove)

		// Invitation routes
		authorized.POST("/invitations", invitationHandler.Create)
		authorized.GET("/invitations", invitationHandler.GetMine)
		authorized.POST("/invitations/:id/accept", invitationHandler.Accept)
		authorized.POST("/invitations/:id/reject", invitationHandler.Reject)
		authorized.DELETE("/invitations/:id", invitationHandler.Cancel)

		// Column routes
		authorized.POST("/columns", columnHandler.Create)
		authorized.GET("/boards/:id/columns", columnHandler.GetAll)
		authorized.PUT("/columns/:id", columnHandler.Update)
		authorized.DELETE("/columns/:id", columnHandler.Delete)
		authorized.POST("/columns/:id/move", columnHandler.Move)

		// Card routes
		authorized.POST("/cards", cardHandler.Create)
		authorized.GET("/cards/:id", cardHandler.GetByID)
		authorized.GET("/columns/:id/cards", cardHandler.GetByColumnID)
		authorized.PUT("/cards/:id", cardHandler.Update)
		authorized.DELETE("/cards/:id", cardHandler.Delete)
		authorized.POST("/cards/:id/move", cardHandler.Move)
		authorized.POST("/cards/:id/assign", cardHandler.Assign)
		authorized.DELETE("/cards/:id/assign", cardHandler.Unassign)

		// Comment routes
		authorized.GET("/cards/:id/comments", commentHandler.GetByCardID)
		authorized.POST("/cards/:id/comments", commentHandler.Create)
		authorized.DELETE("/comments/:id", commentHandler.Delete)

		// Attachment routes
		authorized.POST("/cards/:id/attachments", attachmentHandler.Upload)
		authorized.GET("/cards/:id/attachments", attachmentHandler.GetByCardID)
		authorized.GET("/attachments/:id", attachmentHandler.Download)
		authorized.DELETE("/attachments/:id", attachmentHandler.Delete)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("✅ Server exited properly")
}
