package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/ButyrinIA/yatube/internal/models"
	"github.com/ButyrinIA/yatube/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgresStorage(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропуск интеграционного теста в режиме -short")
	}

	// Запуск тестового контейнера PostgreSQL
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:13",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "user",
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_DB":       "yatube",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}
	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Не удалось запустить контейнер PostgreSQL: %v", err)
	}
	defer postgresC.Terminate(ctx)

	host, err := postgresC.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить хост контейнера: %v", err)
	}
	port, err := postgresC.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить порт контейнера: %v", err)
	}
	dsn := "postgres://user:password@" + host + ":" + port.Port() + "/yatube?sslmode=disable"

	store, err := New(dsn)
	if err != nil {
		t.Fatalf("Не удалось инициализировать PostgresStorage: %v", err)
	}
	defer store.Close()

	// uuid в именах защищает подтесты от пересечения фикстур
	makeUser := func(t *testing.T) *models.User {
		t.Helper()
		user := &models.User{
			Username:     "user-" + uuid.New().String(),
			PasswordHash: "hash",
			Joined:       time.Now(),
		}
		require.NoError(t, store.CreateUser(ctx, user))
		return user
	}
	makeGroup := func(t *testing.T) *models.Group {
		t.Helper()
		group := &models.Group{
			Slug:        "slug-" + uuid.New().String(),
			Title:       "Тестовая группа",
			Description: "Тестовое описание",
		}
		require.NoError(t, store.CreateGroup(ctx, group))
		return group
	}

	t.Run("CreateUser and GetUserByUsername", func(t *testing.T) {
		user := makeUser(t)
		assert.NotZero(t, user.ID, "Пользователю не присвоен id")

		retrieved, err := store.GetUserByUsername(ctx, user.Username)
		assert.NoError(t, err, "Ошибка при получении пользователя")
		assert.Equal(t, user.ID, retrieved.ID, "ID пользователя не совпадает")
		assert.Equal(t, "hash", retrieved.PasswordHash, "Хеш пароля не совпадает")

		err = store.CreateUser(ctx, &models.User{Username: user.Username, Joined: time.Now()})
		assert.ErrorIs(t, err, storage.ErrConflict, "Ожидался конфликт для занятого имени")
	})

	t.Run("CreateGroup and GetGroupBySlug", func(t *testing.T) {
		group := makeGroup(t)

		retrieved, err := store.GetGroupBySlug(ctx, group.Slug)
		assert.NoError(t, err, "Ошибка при получении группы")
		assert.Equal(t, group.ID, retrieved.ID, "ID группы не совпадает")

		_, err = store.GetGroupBySlug(ctx, "no-such-slug")
		assert.ErrorIs(t, err, storage.ErrNotFound, "Ожидалась ошибка для несуществующего слага")
	})

	t.Run("CreatePost and GetPost with references", func(t *testing.T) {
		user := makeUser(t)
		group := makeGroup(t)

		post := &models.Post{
			Text:     "Текст. Автотест. Эталонный пост",
			PubDate:  time.Now(),
			AuthorID: user.ID,
			GroupID:  &group.ID,
		}
		require.NoError(t, store.CreatePost(ctx, post))
		assert.NotZero(t, post.ID, "Посту не присвоен id")

		retrieved, err := store.GetPost(ctx, post.ID)
		require.NoError(t, err, "Ошибка при получении поста")
		assert.Equal(t, post.Text, retrieved.Text, "Текст поста не совпадает")
		require.NotNil(t, retrieved.Author, "Автор не заполнен одним запросом")
		assert.Equal(t, user.Username, retrieved.Author.Username, "Автор не совпадает")
		require.NotNil(t, retrieved.Group, "Группа не заполнена одним запросом")
		assert.Equal(t, group.Slug, retrieved.Group.Slug, "Группа не совпадает")
	})

	t.Run("GetPost Not Found", func(t *testing.T) {
		_, err := store.GetPost(ctx, 1<<60)
		assert.ErrorIs(t, err, storage.ErrNotFound, "Ожидалась ошибка для несуществующего поста")
	})

	t.Run("UpdatePost and DeletePost", func(t *testing.T) {
		user := makeUser(t)
		group := makeGroup(t)

		post := &models.Post{
			Text:     "Текст до правки",
			PubDate:  time.Now().Add(-time.Hour),
			AuthorID: user.ID,
		}
		require.NoError(t, store.CreatePost(ctx, post))

		post.Text = "Текст обновленного тестового поста"
		post.GroupID = &group.ID
		require.NoError(t, store.UpdatePost(ctx, post))

		updated, err := store.GetPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.Text, updated.Text, "Текст не обновился")
		require.NotNil(t, updated.Group, "Группа не обновилась")
		assert.Equal(t, user.ID, updated.AuthorID, "Автор изменился при правке")

		require.NoError(t, store.DeletePost(ctx, post.ID))
		_, err = store.GetPost(ctx, post.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound, "Пост не удален")
	})

	t.Run("ListPosts filtering and pagination", func(t *testing.T) {
		user := makeUser(t)
		group := makeGroup(t)

		base := time.Now().Add(-24 * time.Hour)
		for i := 0; i < 3; i++ {
			post := &models.Post{
				Text:     "Пост в группе",
				PubDate:  base.Add(time.Duration(i) * time.Minute),
				AuthorID: user.ID,
				GroupID:  &group.ID,
			}
			require.NoError(t, store.CreatePost(ctx, post))
		}

		filter := storage.PostFilter{GroupSlug: group.Slug}

		count, err := store.CountPosts(ctx, filter)
		assert.NoError(t, err)
		assert.Equal(t, 3, count, "Неверное количество постов в группе")

		posts, err := store.ListPosts(ctx, filter, 2, 0)
		assert.NoError(t, err, "Ошибка при получении списка постов")
		require.Len(t, posts, 2, "Ожидались два поста на первой странице")
		assert.True(t, posts[0].PubDate.After(posts[1].PubDate), "Посты не отсортированы от новых к старым")

		posts, err = store.ListPosts(ctx, storage.PostFilter{AuthorUsername: user.Username}, 10, 2)
		assert.NoError(t, err)
		assert.Len(t, posts, 1, "Смещение вернуло неверное количество постов")
	})
}
