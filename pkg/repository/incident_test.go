package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hibana/pkg/domain/interfaces"
	"github.com/secmon-lab/hibana/pkg/domain/model"
	"github.com/secmon-lab/hibana/pkg/domain/types"
	"github.com/secmon-lab/hibana/pkg/repository/firestore"
	"github.com/secmon-lab/hibana/pkg/repository/memory"
)

func newIncident(title string, category types.CauseCategory, date time.Time) *model.Incident {
	return &model.Incident{
		Title:         title,
		IncidentText:  title + "に関する投稿",
		IncidentDate:  date,
		CauseCategory: category,
		ReasoningText: "炎上の経緯の説明",
	}
}

func runIncidentRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns sequential IDs and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Incident().Create(ctx, newIncident("事例その1", types.CategoryOther, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
		gt.NoError(t, err).Required()
		gt.Number(t, first.ID).Equal(1)
		gt.Value(t, first.CreatedAt.IsZero()).Equal(false)
		gt.Value(t, first.UpdatedAt.IsZero()).Equal(false)

		second, err := repo.Incident().Create(ctx, newIncident("事例その2", types.CategoryOther, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)))
		gt.NoError(t, err).Required()
		gt.Number(t, second.ID).Equal(2)
	})

	t.Run("Create rejects invalid incident", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Incident().Create(ctx, &model.Incident{Title: "タイトルのみ"})
		gt.Error(t, err)
	})

	t.Run("Get retrieves all fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		incident := newIncident("全項目の事例", types.CategoryDiscrimination, time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC))
		incident.CompanyInfo = "飲食チェーン"
		incident.MediaURL = "https://example.com/post/123"
		incident.ResponseText = "公式アカウントで謝罪"
		incident.Outcome = "謝罪文を公開"

		created, err := repo.Incident().Create(ctx, incident)
		gt.NoError(t, err).Required()

		got, err := repo.Incident().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("全項目の事例")
		gt.Value(t, got.CauseCategory).Equal(types.CategoryDiscrimination)
		gt.Value(t, got.CompanyInfo).Equal("飲食チェーン")
		gt.Value(t, got.MediaURL).Equal("https://example.com/post/123")
		gt.Value(t, got.ResponseText).Equal("公式アカウントで謝罪")
		gt.Value(t, got.Outcome).Equal("謝罪文を公開")
	})

	t.Run("Get missing incident", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Incident().Get(ctx, 12345)
		gt.Error(t, err).Is(model.ErrIncidentNotFound)
	})

	t.Run("List returns incidents in ID order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			_, err := repo.Incident().Create(ctx, newIncident(fmt.Sprintf("事例%d", i), types.CategoryOther, time.Date(2023, 1, 1+i, 0, 0, 0, 0, time.UTC)))
			gt.NoError(t, err).Required()
		}

		incidents, err := repo.Incident().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, incidents).Length(3)
		gt.Number(t, incidents[0].ID).Equal(1)
		gt.Number(t, incidents[2].ID).Equal(3)
	})

	t.Run("Search requires keywords", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Incident().Search(ctx, nil, 3)
		gt.Error(t, err)
	})

	t.Run("Search ranks category priority above recency", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		// newest first in insertion, lowest priority has the freshest date
		_, err := repo.Incident().Create(ctx, newIncident("その他の件", types.CategoryOther, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
		gt.NoError(t, err).Required()
		_, err = repo.Incident().Create(ctx, newIncident("趣味嗜好の件", types.CategoryTasteDiscrimination, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
		gt.NoError(t, err).Required()
		_, err = repo.Incident().Create(ctx, newIncident("差別表現の件", types.CategoryDiscrimination, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)))
		gt.NoError(t, err).Required()

		found, err := repo.Incident().Search(ctx, []string{"投稿"}, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, found).Length(3)
		gt.Value(t, found[0].CauseCategory).Equal(types.CategoryDiscrimination)
		gt.Value(t, found[1].CauseCategory).Equal(types.CategoryTasteDiscrimination)
		gt.Value(t, found[2].CauseCategory).Equal(types.CategoryOther)
	})

	t.Run("Search breaks priority ties by recency", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Incident().Create(ctx, newIncident("古い労働問題", types.CategoryLaborIssue, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)))
		gt.NoError(t, err).Required()
		_, err = repo.Incident().Create(ctx, newIncident("新しい労働問題", types.CategoryLaborIssue, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
		gt.NoError(t, err).Required()

		found, err := repo.Incident().Search(ctx, []string{"労働問題"}, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, found).Length(2)
		gt.Value(t, found[0].Title).Equal("新しい労働問題")
	})

	t.Run("Search matches any keyword across columns", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Incident().Create(ctx, newIncident("誹謗中傷の件", types.CategoryDefamation, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)))
		gt.NoError(t, err).Required()

		// category column match
		found, err := repo.Incident().Search(ctx, []string{"誹謗中傷"}, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, found).Length(1)

		// no match
		found, err = repo.Incident().Search(ctx, []string{"該当なし"}, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, found).Length(0)
	})

	t.Run("Search honors the limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			_, err := repo.Incident().Create(ctx, newIncident(fmt.Sprintf("事例%d", i), types.CategoryOther, time.Date(2023, 1, 1+i, 0, 0, 0, 0, time.UTC)))
			gt.NoError(t, err).Required()
		}

		found, err := repo.Incident().Search(ctx, []string{"投稿"}, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, found).Length(2)
	})

	t.Run("ListRecent orders by date descending", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Incident().Create(ctx, newIncident("古い件", types.CategoryOther, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)))
		gt.NoError(t, err).Required()
		_, err = repo.Incident().Create(ctx, newIncident("新しい件", types.CategoryOther, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
		gt.NoError(t, err).Required()
		_, err = repo.Incident().Create(ctx, newIncident("中間の件", types.CategoryOther, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
		gt.NoError(t, err).Required()

		incidents, err := repo.Incident().ListRecent(ctx, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, incidents).Length(2)
		gt.Value(t, incidents[0].Title).Equal("新しい件")
		gt.Value(t, incidents[1].Title).Equal("中間の件")
	})

	t.Run("Count reflects stored incidents", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		count, err := repo.Incident().Count(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, count).Equal(0)

		_, err = repo.Incident().Create(ctx, newIncident("件数確認", types.CategoryOther, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
		gt.NoError(t, err).Required()

		count, err = repo.Incident().Count(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, count).Equal(1)
	})

	t.Run("mutating a returned incident does not affect the store", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Incident().Create(ctx, newIncident("独立性の確認", types.CategoryOther, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
		gt.NoError(t, err).Required()

		created.Title = "書き換え"

		got, err := repo.Incident().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("独立性の確認")
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func TestMemoryIncidentRepository(t *testing.T) {
	runIncidentRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreIncidentRepository(t *testing.T) {
	runIncidentRepositoryTest(t, newFirestoreRepository)
}
