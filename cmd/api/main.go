package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appbook "github.com/xiebiao/library/internal/application/book"
	appcategory "github.com/xiebiao/library/internal/application/category"
	appreport "github.com/xiebiao/library/internal/application/report"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/response"
)

// @title           图书目录服务 API
// @version         1.0
// @description     图书目录管理:层级分类、图书馆藏、多对多关联
// @BasePath        /

// main 主程序入口
// 说明:手动依赖注入(wire.go提供Wire版本,两者保持同构)
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	if _, err := logger.Init(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	}); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Sync()

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 3. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 4. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 依赖注入(手动组装)
	// 依赖链:Repository ← Service ← UseCase ← Handler

	// 基础设施层
	categoryRepo := mysql.NewCategoryRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	txManager := mysql.NewTxManager(db)
	bookCache := redis.NewBookCache(redisClient, cfg.Cache.BookDetailTTL)

	// 领域层
	categoryService := category.NewService(categoryRepo)
	bookService := book.NewService(bookRepo, categoryService)

	// 应用层
	createCategoryUseCase := appcategory.NewCreateCategoryUseCase(categoryService)
	updateCategoryUseCase := appcategory.NewUpdateCategoryUseCase(categoryService, txManager)
	deleteCategoryUseCase := appcategory.NewDeleteCategoryUseCase(categoryService, txManager)
	queryCategoriesUseCase := appcategory.NewQueryCategoriesUseCase(categoryService)

	createBookUseCase := appbook.NewCreateBookUseCase(bookService, txManager)
	updateBookUseCase := appbook.NewUpdateBookUseCase(bookService, txManager, bookCache)
	deleteBookUseCase := appbook.NewDeleteBookUseCase(bookService, txManager, bookCache)
	getBookUseCase := appbook.NewGetBookUseCase(bookService, bookCache)
	searchBooksUseCase := appbook.NewSearchBooksUseCase(bookService)
	linkCategoryUseCase := appbook.NewLinkCategoryUseCase(bookService)
	importBooksUseCase := appbook.NewImportBooksUseCase(bookService, categoryService, txManager)

	catalogReportUseCase := appreport.NewCatalogReportUseCase(bookService, categoryService)

	// 接口层
	categoryHandler := handler.NewCategoryHandler(
		createCategoryUseCase, updateCategoryUseCase, deleteCategoryUseCase, queryCategoriesUseCase)
	bookHandler := handler.NewBookHandler(
		createBookUseCase, updateBookUseCase, deleteBookUseCase,
		getBookUseCase, searchBooksUseCase, linkCategoryUseCase, importBooksUseCase)
	reportHandler := handler.NewReportHandler(catalogReportUseCase)

	// 6. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())

	// 7. 注册路由
	registerRoutes(r, categoryHandler, bookHandler, reportHandler)

	// 8. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功!\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   API文档: http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	categoryHandler *handler.CategoryHandler,
	bookHandler *handler.BookHandler,
	reportHandler *handler.ReportHandler,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Swagger文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 分类模块
		categories := v1.Group("/categories")
		{
			categories.POST("", categoryHandler.CreateCategory)
			categories.GET("", categoryHandler.ListCategories)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.PUT("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
			categories.GET("/:id/children", categoryHandler.ListChildren)
			categories.GET("/:id/books", bookHandler.ListBooksByCategory)
		}

		// 图书模块
		books := v1.Group("/books")
		{
			books.POST("", bookHandler.CreateBook)
			books.GET("", bookHandler.SearchBooks)
			books.POST("/import", bookHandler.ImportBooks)
			books.GET("/low-stock", bookHandler.ListLowStock)
			books.GET("/uncategorized", bookHandler.ListUncategorized)
			books.GET("/isbn/:isbn", bookHandler.GetBookByISBN)
			books.GET("/:id", bookHandler.GetBook)
			books.PUT("/:id", bookHandler.UpdateBook)
			books.DELETE("/:id", bookHandler.DeleteBook)
			books.GET("/:id/categories", bookHandler.ListBookCategories)
			books.PUT("/:id/categories/:categoryId", bookHandler.AddBookToCategory)
			books.DELETE("/:id/categories/:categoryId", bookHandler.RemoveBookFromCategory)
		}

		// 报表模块
		reports := v1.Group("/reports")
		{
			reports.GET("/catalog", reportHandler.GetCatalogReport)
		}
	}
}
