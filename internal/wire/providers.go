package wire

import (
	"vidshare/internal/api"
	"vidshare/internal/config"
	"vidshare/internal/dbmongo"
	"vidshare/internal/dbs3"
	"vidshare/internal/media"
	"vidshare/internal/store"
	"vidshare/internal/user"
)

type Application struct {
	Config *config.Config
	Mongo  *dbmongo.MongoClient
	API    *api.Server
	Media  *media.HTTPServer
}

func ProvideDocumentStore(mc *dbmongo.MongoClient) store.DocumentStore {
	return dbmongo.NewDocumentStore(mc)
}

func ProvideGridFSStore(mc *dbmongo.MongoClient, cfg *config.Config) *dbmongo.ObjectStore {
	return dbmongo.NewObjectStore(mc, cfg.PublicURL)
}

// ProvideObjectStore selects the configured object store backend. GridFS is
// the default; documents stay in Mongo either way.
func ProvideObjectStore(cfg *config.Config, grid *dbmongo.ObjectStore) (store.ObjectStore, error) {
	if cfg.Storage.Backend == "s3" {
		return dbs3.NewObjectStore(cfg)
	}
	return grid, nil
}

func ProvideUserService(docs store.DocumentStore, cfg *config.Config) user.Service {
	return user.NewService(docs, cfg.PublicURL)
}
