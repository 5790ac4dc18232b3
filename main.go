package main

import (
	"log"
	"time"

	"restaurant-directory/config"
	httpapi "restaurant-directory/internal/api/http"
	"restaurant-directory/internal/catalog"
	"restaurant-directory/internal/service"
	"restaurant-directory/internal/storage"
)

const (
	eventsTopic = "directory-events"
	sessionTTL  = 30 * 24 * time.Hour
	draftTTL    = 2 * time.Hour
)

func main() {
	db := config.MustInitPostgres()
	defer db.Close()

	if err := storage.EnsureSchema(db); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	rdb := config.MustInitRedis()
	defer rdb.Close()

	writer := config.NewKafkaWriter(eventsTopic)
	defer writer.Close()

	repo := storage.NewPostgresRepository(db)
	kv := storage.NewRedisKV(rdb)
	publisher := storage.NewKafkaPublisher(writer)

	listing := catalog.Default()

	favorites := service.NewFavoritesService(listing, repo, kv, publisher, sessionTTL)
	handler := &httpapi.Handler{
		Search:       service.NewSearchService(listing),
		Detail:       service.NewDetailService(listing, favorites),
		Theme:        service.NewThemeService(kv, sessionTTL),
		Dialogs:      service.NewDialogService(kv, sessionTTL),
		Favorites:    favorites,
		Reservations: service.NewReservationService(listing, repo, service.DefaultQRGenerator{BaseURL: config.BaseURL()}, publisher),
		Orders:       service.NewOrdersService(listing, kv, publisher, draftTTL),
		Toasts:       service.NewToastService(kv, sessionTTL),
		Users:        service.NewUsersService(repo, kv, sessionTTL),
	}

	httpapi.StartServer(config.ListenAddr(), httpapi.NewRouter(handler))
}
