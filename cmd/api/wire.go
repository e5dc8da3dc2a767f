//go:build wireinject
// +build wireinject

// Wire provider sets. Run `wire gen ./cmd/api` after changing them.

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/xiebiao/booknotes/internal/application/library"
	"github.com/xiebiao/booknotes/internal/domain/book"
	"github.com/xiebiao/booknotes/internal/domain/editor"
	"github.com/xiebiao/booknotes/internal/domain/note"
	"github.com/xiebiao/booknotes/internal/domain/review"
	"github.com/xiebiao/booknotes/internal/domain/view"
	"github.com/xiebiao/booknotes/internal/infrastructure/config"
	"github.com/xiebiao/booknotes/internal/infrastructure/cover"
	"github.com/xiebiao/booknotes/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/booknotes/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/booknotes/internal/interface/http/handler"
	"github.com/xiebiao/booknotes/internal/interface/http/router"
	"github.com/xiebiao/booknotes/pkg/jwt"
)

// infrastructureSet connections and adapters
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideTxManager,
	provideCoverResolver,
	wire.Bind(new(book.CoverResolver), new(*cover.Resolver)),
	provideJWTManager,
	wire.Bind(new(editor.TokenCodec), new(*jwt.Manager)),
	redis.NewSessionStore,
	wire.Bind(new(editor.SessionStore), new(*redis.SessionStore)),
	provideViewCache,
	provideEventPublisher,
)

// repositorySet one repository per table, plus the joined views
var repositorySet = wire.NewSet(
	mysql.NewBookRepository,
	wire.Bind(new(book.Repository), new(*mysql.BookRepository)),
	wire.Bind(new(review.BookChecker), new(*mysql.BookRepository)),
	wire.Bind(new(note.BookChecker), new(*mysql.BookRepository)),
	mysql.NewReviewRepository,
	mysql.NewNoteRepository,
	mysql.NewViewRepository,
	mysql.NewEditorRepository,
)

// domainSet domain services and the access gate
var domainSet = wire.NewSet(
	provideBookService,
	review.NewService,
	note.NewService,
	view.NewService,
	provideGate,
)

// applicationSet use cases
var applicationSet = wire.NewSet(
	library.NewCatalogUseCase,
	library.NewReviewUseCase,
	library.NewNoteUseCase,
	library.NewViewUseCase,
	library.NewSessionUseCase,
)

// interfaceSet HTTP and gRPC surfaces
var interfaceSet = wire.NewSet(
	provideSessionMiddleware,
	provideSignInLimiter,
	handler.NewBookHandler,
	handler.NewReviewHandler,
	handler.NewNoteHandler,
	handler.NewViewHandler,
	handler.NewSessionHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideEngine,
	provideHealthServer,
)

// InitializeApp wires the whole service. The cleanup closes connections
// in reverse order of creation.
func InitializeApp(cfg *config.Config, log *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
