//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"vidshare/internal/api"
	"vidshare/internal/config"
	"vidshare/internal/dbmongo"
	"vidshare/internal/media"
	"vidshare/internal/post"
)

func InitializeApplication() (*Application, error) {
	wire.Build(
		config.LoadConfig,
		dbmongo.NewMongoConnection,
		ProvideDocumentStore,
		ProvideGridFSStore,
		ProvideObjectStore,
		ProvideUserService,
		post.NewRepository,
		api.NewServer,
		media.NewHTTPServer,
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}
