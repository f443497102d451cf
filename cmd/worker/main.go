package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/athebyme/wbcard-sync/config"
	"github.com/athebyme/wbcard-sync/internal/adapters/cache"
	"github.com/athebyme/wbcard-sync/internal/adapters/logger"
	"github.com/athebyme/wbcard-sync/internal/adapters/messaging"
	"github.com/athebyme/wbcard-sync/internal/adapters/storage"
	"github.com/athebyme/wbcard-sync/internal/adapters/wildberries"
	"github.com/athebyme/wbcard-sync/internal/domain/mapper"
	"github.com/athebyme/wbcard-sync/internal/domain/mapper/collection"
	"github.com/athebyme/wbcard-sync/internal/domain/resolver"
	"github.com/athebyme/wbcard-sync/internal/domain/services"
	"github.com/athebyme/wbcard-sync/pkg/interfaces"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Метрики для Prometheus
var (
	messagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_card_updates_total",
		Help: "Общее количество обработанных обновлений карточек",
	}, []string{"status"})

	messageProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "worker_card_update_duration_seconds",
		Help:    "Длительность цикла обновления карточки",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	activeWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "worker_active_goroutines",
		Help: "Количество активных горутин-обработчиков",
	})
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log, err := logger.NewZapLogger(cfg.LogLevel, cfg.ENV == "production")
	if err != nil {
		fmt.Printf("Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	log.Info("Инициализация воркера",
		interfaces.LogField{Key: "app_name", Value: cfg.AppName + "-worker"},
		interfaces.LogField{Key: "version", Value: cfg.Version},
		interfaces.LogField{Key: "env", Value: cfg.ENV},
	)

	// Запускаем HTTP сервер для метрик если они включены
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("OK"))
			})

			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			log.Info("Запуск HTTP сервера для метрик",
				interfaces.LogField{Key: "addr", Value: addr})

			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Error("Ошибка запуска HTTP сервера для метрик",
					interfaces.LogField{Key: "error", Value: err.Error()})
			}
		}()
	}

	// Инициализируем хранилище
	repo, err := storage.NewCardStorage(ctx, cfg.ConnectionString())
	if err != nil {
		log.Fatal("Ошибка инициализации хранилища",
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
	defer repo.Close()
	log.Info("Хранилище инициализировано")

	// Инициализируем кэш
	cacheClient, err := cache.NewRedisCache(
		ctx,
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		log.Fatal("Ошибка инициализации кэша",
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
	defer cacheClient.Close()
	log.Info("Кэш инициализирован")

	// Инициализируем систему обмена сообщениями
	messagingClient, err := messaging.NewKafkaMessaging(
		strings.Join(cfg.Kafka.Brokers, ","),
		cfg.Kafka.GroupID,
		log,
	)
	if err != nil {
		log.Fatal("Ошибка инициализации системы обмена сообщениями",
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
	defer messagingClient.Close()
	log.Info("Система обмена сообщениями инициализирована")

	// Собираем реестр мапперов
	registry, err := mapper.NewRegistry(collection.Collection()...)
	if err != nil {
		log.Fatal("Ошибка регистрации мапперов свойств",
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
	log.Info("Реестр мапперов собран",
		interfaces.LogField{Key: "mappers", Value: registry.Len()})

	// Клиент Wildberries API
	tokens, err := cfg.ProfileTokens()
	if err != nil {
		log.Fatal("Ошибка разбора токенов Wildberries",
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
	wbClient := wildberries.NewClient(wildberries.Config{
		APIURL:            cfg.Wildberries.APIURL,
		Tokens:            tokens,
		RequestsPerMinute: cfg.Wildberries.RequestsPerMinute,
		Timeout:           cfg.Wildberries.Timeout,
	}, log)

	// Сервис обновления карточек: выборка через кэш, затем маппинг и отправка
	fetcher := storage.NewCachedRowFetcher(repo, cacheClient, cfg.Redis.RowsTTL, log)
	cardResolver := resolver.New(fetcher)
	cardService := services.NewCardUpdateService(cardResolver, mapper.NewCardMapper(registry), wbClient, log)
	log.Info("Сервис обновления карточек инициализирован")

	// Каналы для сигналов и завершения
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	// Подписываемся на триггеры обновления карточек
	subscribeToCardUpdates(ctx, messagingClient, cardService, cfg.Kafka.CardUpdateTopic, log, &wg)

	// Обработка сигналов завершения
	go func() {
		<-quit
		log.Info("Получен сигнал завершения, выполняется graceful shutdown...")
		cancel()
		wg.Wait()
		close(done)
	}()

	log.Info("Воркер запущен и готов к обработке сообщений")
	<-done
	log.Info("Воркер корректно завершил работу")
}

// Подписка на триггеры обновления карточек
func subscribeToCardUpdates(ctx context.Context, messagingClient interfaces.MessagingPort,
	cardService *services.CardUpdateService, topic string,
	logger interfaces.LoggerPort, wg *sync.WaitGroup) {

	handler := func(ctx context.Context, msg *interfaces.Message) error {
		startTime := time.Now()
		activeWorkers.Inc()
		defer activeWorkers.Dec()

		logger.InfoWithContext(ctx, "Получен триггер обновления карточки",
			interfaces.LogField{Key: "message_id", Value: msg.ID},
			interfaces.LogField{Key: "topic", Value: msg.Topic},
		)

		var update services.CardUpdateMessage
		if err := json.Unmarshal(msg.Value, &update); err != nil {
			logger.ErrorWithContext(ctx, "Ошибка декодирования триггера обновления",
				interfaces.LogField{Key: "error", Value: err.Error()},
				interfaces.LogField{Key: "message_id", Value: msg.ID},
			)
			messagesProcessed.WithLabelValues("invalid").Inc()
			// Битое сообщение не станет валидным при повторной доставке
			return nil
		}

		msgCtx := context.WithValue(ctx, "profile", update.Profile.String())

		status, err := cardService.Update(msgCtx, update)
		if err != nil {
			logger.ErrorWithContext(msgCtx, "Ошибка цикла обновления карточки",
				interfaces.LogField{Key: "error", Value: err.Error()})
			messagesProcessed.WithLabelValues("error").Inc()
			return err
		}

		duration := time.Since(startTime).Seconds()
		messageProcessingDuration.WithLabelValues(status.String()).Observe(duration)
		messagesProcessed.WithLabelValues(status.String()).Inc()

		logger.InfoWithContext(msgCtx, "Цикл обновления карточки завершен",
			interfaces.LogField{Key: "status", Value: status.String()},
			interfaces.LogField{Key: "duration", Value: duration},
		)

		return nil
	}

	wg.Add(1)

	go func() {
		defer wg.Done()

		unsubscribe, err := messagingClient.Subscribe(ctx, topic, handler)
		if err != nil {
			logger.Error("Ошибка подписки на триггеры обновления карточек",
				interfaces.LogField{Key: "error", Value: err.Error()})
			return
		}
		defer unsubscribe()

		logger.Info("Подписка на триггеры обновления карточек установлена",
			interfaces.LogField{Key: "topic", Value: topic})

		<-ctx.Done()
		logger.Info("Отмена подписки на триггеры обновления карточек")
	}()
}
