package main

import (
	"context"
	"flag"
	"log"

	"github.com/ButyrinIA/yatube/internal/config"
	"github.com/ButyrinIA/yatube/internal/models"
	"github.com/ButyrinIA/yatube/internal/server"
	"github.com/ButyrinIA/yatube/internal/storage"
	"github.com/ButyrinIA/yatube/internal/storage/memory"
	"github.com/ButyrinIA/yatube/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	storageType := flag.String("storage", "memory", "тип хранилища: memory или postgres")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Не удалось загрузить конфигурацию: %v", err)
	}

	var store storage.Storage
	switch *storageType {
	case "postgres":
		log.Println("Инициализация хранилища PostgreSQL")
		store, err = postgres.New(cfg.Postgres.DSN)
		if err != nil {
			log.Fatalf("Не удалось инициализировать PostgreSQL: %v", err)
		}
	case "memory":
		log.Println("Инициализация хранилища Memory")
		store = memory.New()
		seedGroups(store)
	default:
		log.Fatalf("Неизвестный тип хранилища: %s", *storageType)
	}
	defer store.Close()

	srv := server.New(cfg, store)
	log.Println("Запуск сервера")
	if err := srv.Run(); err != nil {
		log.Fatalf("Не удалось запустить сервер: %v", err)
	}
}

// seedGroups создает стартовые группы для хранилища в памяти,
// чтобы форме поста было что показать в выпадающем списке
func seedGroups(store storage.Storage) {
	groups := []models.Group{
		{Slug: "cats", Title: "Коты", Description: "Записи про котов"},
		{Slug: "travel", Title: "Путешествия", Description: "Записи о поездках"},
	}
	for _, g := range groups {
		if err := store.CreateGroup(context.Background(), &g); err != nil {
			log.Printf("Не удалось создать группу %s: %v", g.Slug, err)
		}
	}
}
