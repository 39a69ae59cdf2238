//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 说明:
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入不同,Wire在编译期生成代码
// 3. 优势:零运行时开销、类型安全、编译期检测循环依赖
//
// 工作流程:
// Step 1: 编写wire.go(本文件),定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go,包含完整的依赖创建代码

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

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
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,     // 加载配置文件
	mysql.NewDB,     // 创建MySQL连接
	redis.NewClient, // 创建Redis连接
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewCategoryRepository, // 分类仓储
	mysql.NewBookRepository,     // 图书仓储
	mysql.NewTxManager,          // 事务管理器
	provideBookCache,            // 图书详情缓存

	// 用例依赖的事务接口绑定到mysql实现
	wire.Bind(new(appcategory.TxManager), new(*mysql.TxManager)),
	wire.Bind(new(appbook.TxManager), new(*mysql.TxManager)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	category.NewService, // 分类层级领域服务
	book.NewService,     // 图书目录领域服务
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appcategory.NewCreateCategoryUseCase,
	appcategory.NewUpdateCategoryUseCase,
	appcategory.NewDeleteCategoryUseCase,
	appcategory.NewQueryCategoriesUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewSearchBooksUseCase,
	appbook.NewLinkCategoryUseCase,
	appbook.NewImportBooksUseCase,
	appreport.NewCatalogReportUseCase,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewCategoryHandler,
	handler.NewBookHandler,
	handler.NewReportHandler,
)

// provideBookCache 从配置提取TTL创建图书详情缓存
// Config包含多个字段,Wire无法自动知道如何提取TTL参数,需要手动编写Provider
func provideBookCache(client *goredis.Client, cfg *config.Config) *redis.BookCache {
	return redis.NewBookCache(client, cfg.Cache.BookDetailTTL)
}

// provideGinEngine 创建并配置Gin引擎
// 路由注册直接写在这里,与main.go中的registerRoutes保持一致
func provideGinEngine(
	cfg *config.Config,
	categoryHandler *handler.CategoryHandler,
	bookHandler *handler.BookHandler,
	reportHandler *handler.ReportHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())

	// 路由(含Swagger文档,见registerRoutes)
	registerRoutes(r, categoryHandler, bookHandler, reportHandler)
	return r
}

// InitializeApp 初始化整个应用(Wire Injector)
// wire.Build告诉Wire需要哪些Provider来构建*gin.Engine,
// Wire会按依赖关系的正确顺序调用所有构造函数
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
		provideGinEngine,
	)

	// 返回值是占位符,实际运行时被wire_gen.go替代
	return nil, nil
}
