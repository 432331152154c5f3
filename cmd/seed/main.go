// seed prepara una base nueva: crea el administrador inicial y, opcionalmente,
// importa un catálogo de productos desde CSV.
//
// Uso:
//
//	go run ./cmd/seed -admin-user admin -admin-email admin@tienda.com -admin-password '...'
//	go run ./cmd/seed -products productos.csv -encoding latin1 -sep ';'
//
// La conexión se toma de la misma configuración que la API (DATABASE_URL, DB_*).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/usecase"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Comercio-api/pkg/config"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

// seedActor identidad con la que quedan auditadas las altas del seed.
var seedActor = &authz.Identity{Username: "seed", Role: entity.RoleAdmin}

func main() {
	adminUser := flag.String("admin-user", "", "username del administrador inicial")
	adminEmail := flag.String("admin-email", "", "email del administrador inicial")
	adminPassword := flag.String("admin-password", os.Getenv("SEED_ADMIN_PASSWORD"), "password del administrador (o SEED_ADMIN_PASSWORD)")
	productsCSV := flag.String("products", "", "CSV de productos a importar")
	encoding := flag.String("encoding", "utf8", "codificación del CSV: utf8 | latin1 | cp1252")
	sep := flag.String("sep", ",", "separador de columnas del CSV")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}).Component("seed")

	if cfg.DB.Driver != "postgres" {
		log.Fatal().Str("driver", cfg.DB.Driver).Msg("el seed solo aplica a DB_DRIVER=postgres")
	}
	if *adminUser == "" && *productsCSV == "" {
		flag.Usage()
		os.Exit(2)
	}

	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	auditSvc := audit.NewService(postgres.NewActivityLogRepository(pool), log)

	if *adminUser != "" {
		users := usecase.NewUserUseCase(postgres.NewUserRepository(pool), auditSvc)
		if err := seedAdmin(ctx, users, *adminUser, *adminEmail, *adminPassword); err != nil {
			log.Fatal().Err(err).Msg("crear administrador")
		}
		log.Info().Str("username", *adminUser).Msg("administrador listo")
	}

	if *productsCSV != "" {
		r, size := utf8.DecodeRuneInString(*sep)
		if r == utf8.RuneError || size != len(*sep) {
			log.Fatal().Str("sep", *sep).Msg("el separador debe ser un único carácter")
		}
		products := usecase.NewProductUseCase(postgres.NewProductRepository(pool), auditSvc)
		created, failed, err := importCatalog(ctx, products, *productsCSV, *encoding, r, log)
		if err != nil {
			log.Fatal().Err(err).Msg("importar productos")
		}
		log.Info().Int("created", created).Int("failed", failed).Msg("importación terminada")
	}
}

// seedAdmin crea el administrador; si ya existe no hace nada.
func seedAdmin(ctx context.Context, users *usecase.UserUseCase, username, email, password string) error {
	_, err := users.Create(ctx, seedActor, dto.CreateUserRequest{
		Username: username,
		Email:    email,
		Password: password,
		Name:     "Administrador",
		Role:     string(entity.RoleAdmin),
	})
	if errors.Is(err, domain.ErrDuplicate) || errors.Is(err, domain.ErrEmailAlreadyExists) {
		return nil
	}
	return err
}

// productCreator puerto mínimo para importar; lo cumple *usecase.ProductUseCase.
type productCreator interface {
	Create(ctx context.Context, actor *authz.Identity, in dto.CreateProductRequest) (*dto.ProductResponse, error)
}

func importCatalog(ctx context.Context, products productCreator, path, encoding string, sep rune, log *logger.Logger) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	r, err := decodeReader(f, encoding)
	if err != nil {
		return 0, 0, err
	}
	rows, rowErrs, err := parseCatalog(r, sep)
	if err != nil {
		return 0, 0, err
	}
	for _, e := range rowErrs {
		log.Warn().Err(e).Msg("fila descartada")
	}

	created, failed := 0, len(rowErrs)
	for _, row := range rows {
		if _, err := products.Create(ctx, seedActor, row.Product); err != nil {
			failed++
			log.Warn().Err(err).Int("line", row.Line).Str("name", row.Product.Name).Msg("producto no importado")
			continue
		}
		created++
	}
	return created, failed, nil
}
