package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"booking/cmd"
	httpadapter "booking/internal/adapters/in/http"
	"booking/internal/adapters/out/postgres/orderrepo"
	"booking/internal/adapters/out/postgres/vendorrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs := getConfigs()

	gormDB := mustConnectDB(configs)

	root, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("failed to build composition root: %v", err)
	}

	jobManager := root.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(root, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:                goDotEnvVariable("HTTP_PORT"),
		DBHost:                  goDotEnvVariable("DB_HOST"),
		DBPort:                  goDotEnvVariable("DB_PORT"),
		DBUser:                  goDotEnvVariable("DB_USER"),
		DBPassword:              goDotEnvVariable("DB_PASSWORD"),
		DBName:                  goDotEnvVariable("DB_NAME"),
		DBSslMode:               goDotEnvVariable("DB_SSLMODE"),
		RedisAddr:               goDotEnvVariable("REDIS_ADDR"),
		NotifyServiceURL:        goDotEnvVariable("NOTIFY_SERVICE_URL"),
		CartServiceURL:          goDotEnvVariable("CART_SERVICE_URL"),
		PaymentServiceURL:       goDotEnvVariable("PAYMENT_SERVICE_URL"),
		OperatorChannel:         goDotEnvVariable("OPERATOR_CHANNEL"),
		AcceptBaseURL:           goDotEnvVariable("ACCEPT_BASE_URL"),
		StaleBroadcastThreshold: goDotEnvDuration("STALE_BROADCAST_THRESHOLD", 30*time.Minute),
		VendorDetailsTTL:        goDotEnvDuration("VENDOR_DETAILS_TTL", 5*time.Minute),
	}
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func goDotEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid duration for %s: %v", key, err)
	}
	return parsed
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.LineItemDTO{},
		&orderrepo.BroadcastOfferDTO{},
		&vendorrepo.VendorDTO{},
	)
	if err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	return gormDB
}

func startWebServer(root *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.Use(middleware.Recover())

	server := httpadapter.NewServer(
		root.CreatePlaceOrderCommandHandler(),
		root.CreateBroadcastOrderCommandHandler(),
		root.CreateAcceptOfferCommandHandler(),
		root.CreateChangeOrderStatusCommandHandler(),
		root.CreateGetUncompletedOrdersQueryHandler(),
		root.CreateGetVendorOrderDetailsQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
