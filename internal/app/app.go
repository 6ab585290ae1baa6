package app

import (
	"net/http"
	"os"

	"gorm.io/gorm"

	"github.com/phenrril/procar/internal/adapters/docfill"
	"github.com/phenrril/procar/internal/adapters/httpserver"
	"github.com/phenrril/procar/internal/adapters/repo/postgres"
	"github.com/phenrril/procar/internal/adapters/storage/localfs"
	"github.com/phenrril/procar/internal/usecase"
)

type App struct {
	DB         *gorm.DB
	ItemUC     *usecase.ItemUC
	CustomerUC *usecase.CustomerUC
	OrderUC    *usecase.OrderUC
	StorageDir string
}

func NewApp(db *gorm.DB) (*App, error) {
	itemRepo := postgres.NewItemRepo(db)
	custRepo := postgres.NewCustomerRepo(db)
	orderRepo := postgres.NewOrderRepo(db)

	storageDir := os.Getenv("STORAGE_DIR")
	if storageDir == "" {
		storageDir = "uploads"
	}
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return nil, err
	}
	storage := localfs.New(storageDir)

	templatePath := os.Getenv("TEMPLATE_PATH")
	if templatePath == "" {
		templatePath = "templates/procar_form.xlsx"
	}
	exportDir := os.Getenv("EXPORT_DIR")
	if exportDir == "" {
		exportDir = "static/orders"
	}

	app := &App{DB: db, StorageDir: storageDir}
	app.ItemUC = &usecase.ItemUC{Items: itemRepo}
	app.CustomerUC = &usecase.CustomerUC{Customers: custRepo}
	app.OrderUC = &usecase.OrderUC{
		Orders:       orderRepo,
		Customers:    custRepo,
		Storage:      storage,
		Filler:       docfill.New(),
		TemplatePath: templatePath,
		ExportDir:    exportDir,
	}
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.ItemUC, a.CustomerUC, a.OrderUC, a.StorageDir)
}

func (a *App) Migrate() error {
	return postgres.AutoMigrate(a.DB)
}
