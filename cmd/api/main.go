package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/corelend/lead-engine/internal/infra/database"
	"github.com/corelend/lead-engine/internal/infra/http/handlers"
	"github.com/corelend/lead-engine/internal/infra/http/middleware"
	"github.com/corelend/lead-engine/internal/infra/mail"
	"github.com/corelend/lead-engine/internal/infra/queue"
	"github.com/corelend/lead-engine/internal/infra/stream"
	"github.com/corelend/lead-engine/internal/infra/worker"
	"github.com/corelend/lead-engine/internal/usecase"
)

func main() {
	godotenv.Load()

	// The neglect window is a required deployment decision. Teams run anything
	// from 2h to 8h, so there is no default to guess.
	neglectWindow := mustDuration("NEGLECT_WINDOW")
	tickInterval := mustDuration("REASSIGN_TICK")
	maxPerTick := envInt("MAX_REASSIGN_PER_TICK", 0)

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		envDefault("RABBITMQ_USER", "guest"),
		envDefault("RABBITMQ_PASS", "guest"),
		envDefault("RABBITMQ_HOST", "localhost"),
		envDefault("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)
	employeeRepo := database.NewEmployeeRepository(db)
	historyRepo := database.NewHistoryRepository(db)

	var history usecase.HistoryRepositoryInterface = historyRepo
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		producer, err := stream.NewEventProducer(strings.Split(brokers, ","), envDefault("KAFKA_TOPIC", "lead.assignments"))
		if err != nil {
			log.Fatal(err)
		}
		defer producer.Close()
		history = stream.NewStreamedHistory(historyRepo, producer)
	}

	// 2. Notification pipeline
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	notifier := queue.NewNotifier(producer)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), envInt("MAIL_PORT", 587),
		os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		envDefault("MAIL_FROM", "no-reply@corelend.io"),
	)

	notificationWorker := queue.NewWorker(rabbitMQ.Ch, employeeRepo, mailSender)
	go notificationWorker.Start(queue.QueueName)

	// 3. Engine + reassignment sweep
	engine := usecase.NewAssignmentEngine(leadRepo, employeeRepo, history, notifier, usecase.SystemClock{})
	sweep := usecase.NewReassignNeglectedUseCase(engine, neglectWindow, maxPerTick)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reassignmentWorker := worker.NewReassignmentWorker(sweep, tickInterval)
	go reassignmentWorker.Start(ctx)

	// 4. Handlers
	leadHandler := handlers.NewLeadHandler(engine)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 5. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/leads", leadHandler.HandleCreate)
	r.Post("/leads/import", leadHandler.HandleImport)
	r.Get("/leads/pool", leadHandler.HandlePool)
	r.Post("/leads/{id}/claim", leadHandler.HandleClaim)
	r.Post("/leads/{id}/release", leadHandler.HandleRelease)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := envDefault("PORT", ":8080")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{Addr: port, Handler: r}
	go func() {
		log.Printf("🔥 lead engine running on %s (neglect window %s)", port, neglectWindow)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

func mustDuration(name string) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		log.Fatalf("%s is required (e.g. \"2h\" or \"8h\")", name)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("%s is not a valid duration: %v", name, err)
	}
	return d
}

func envDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("%s is not a valid integer: %v", name, err)
	}
	return n
}
